package main

import (
	"bufio"
	"context"
	"io"
	"os"

	"Hegemonie/internal/mapview/client"
	"Hegemonie/internal/mapview/render"
	"Hegemonie/internal/mapview/svg"
	"Hegemonie/internal/region/domain"
	"Hegemonie/internal/shared/config"
	"Hegemonie/internal/shared/logs"
	"Hegemonie/modules/kit/logx"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type renderOptions struct {
	region  string
	out     string
	armies  []string
	here    string
	baseURL string
	margin  float64
}

func newRenderCmd() *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "从 mapd 拉取地图并渲染为 SVG 文件",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.region, "region", "", "地图名称")
	f.StringVarP(&opts.out, "out", "o", "", "输出文件，默认 <region>.svg，- 表示标准输出")
	f.StringArrayVar(&opts.armies, "army", nil, "军队 <cell>:<army>，可重复")
	f.StringVar(&opts.here, "here", "", "高亮的格子 id")
	f.StringVar(&opts.baseURL, "base-url", "", "mapd 地址，默认取配置 client.base_url")
	f.Float64Var(&opts.margin, "margin", 10, "viewBox 边距")
	_ = cmd.MarkFlagRequired("region")
	return cmd
}

func runRender(ctx context.Context, opts *renderOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	armies, err := domain.ParseArmies(opts.armies)
	if err != nil {
		return err
	}

	conf := config.Current()
	base := opts.baseURL
	if base == "" {
		base = conf.Client.BaseURL
	}
	log := logx.NewZapLogger(logs.Logger()).Named("render")
	r := render.NewRenderer(client.New(base, client.WithTimeout(conf.Client.Timeout)), log)

	doc := svg.NewDocument()
	var m *domain.Map
	if len(armies) > 0 {
		m, err = r.DrawMapWithArmies(ctx, doc.Surface(), opts.region, armies, nil)
	} else {
		m, err = r.DrawMapWithCities(ctx, doc.Surface(), opts.region, nil, nil)
	}
	if err != nil {
		return err
	}
	if opts.here != "" {
		render.HighlightCell(doc.Surface(), domain.ID(opts.here))
	}
	render.FitViewBox(doc, m, opts.margin)

	out := opts.out
	if out == "" {
		out = opts.region + ".svg"
	}
	n, err := writeDocument(doc, out)
	if err != nil {
		return err
	}
	logs.Info("map rendered",
		zap.String("region", opts.region),
		zap.String("out", out),
		zap.Int64("bytes", n),
	)
	return nil
}

func writeDocument(doc *svg.Document, out string) (int64, error) {
	var w io.Writer = os.Stdout
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return 0, err
		}
		defer f.Close()
		w = f
	}
	bw := bufio.NewWriter(w)
	n, err := doc.WriteTo(bw)
	if err != nil {
		return n, err
	}
	return n, bw.Flush()
}
