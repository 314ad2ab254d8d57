package main

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"Hegemonie/internal/region/domain"
	"Hegemonie/internal/shared/logs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// normalize / split / dot 都是 stdin(或 --file) -> stdout 的地图编辑命令。

type editInput struct {
	file string
	name string
}

func (in *editInput) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&in.file, "file", "f", "-", "地图文件 {cells, roads, cities}，- 表示标准输入")
	f.StringVar(&in.name, "name", "", "地图名称，默认取文件名")
}

func (in *editInput) read(stdin io.Reader) (*domain.Region, error) {
	name := in.name
	var raw []byte
	var err error
	if in.file == "" || in.file == "-" {
		if name == "" {
			name = "stdin"
		}
		raw, err = io.ReadAll(stdin)
	} else {
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(in.file), filepath.Ext(in.file))
		}
		raw, err = os.ReadFile(in.file)
	}
	if err != nil {
		return nil, err
	}
	return domain.DecodeRegion(name, raw)
}

func writeRegion(r *domain.Region, out io.Writer) error {
	raw, err := domain.EncodeRegion(r)
	if err != nil {
		return err
	}
	raw = append(raw, '\n')
	_, err = out.Write(raw)
	return err
}

type normalizeOptions struct {
	editInput
	width  float64
	height float64
	margin float64
}

func newNormalizeCmd() *cobra.Command {
	opts := &normalizeOptions{}
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "等比缩放地图并居中到画布内",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}
	opts.bind(cmd)
	f := cmd.Flags()
	f.Float64Var(&opts.width, "width", 1024, "画布宽度")
	f.Float64Var(&opts.height, "height", 768, "画布高度")
	f.Float64Var(&opts.margin, "margin", 50, "四周留白")
	return cmd
}

func runNormalize(stdin io.Reader, stdout io.Writer, opts *normalizeOptions) error {
	if opts.width <= 2*opts.margin || opts.height <= 2*opts.margin {
		return fmt.Errorf("canvas %vx%v too small for margin %v", opts.width, opts.height, opts.margin)
	}
	r, err := opts.read(stdin)
	if err != nil {
		return err
	}
	r.Map.FitInto(opts.width-2*opts.margin, opts.height-2*opts.margin)
	r.Map.Center(opts.width, opts.height)
	logs.Debug("region normalized", zap.String("region", r.Name), zap.Int("cells", len(r.Map.Cells)))
	return writeRegion(r, stdout)
}

type splitOptions struct {
	editInput
	dist  float64
	noise float64
	seed  uint64
}

func newSplitCmd() *cobra.Command {
	opts := &splitOptions{}
	cmd := &cobra.Command{
		Use:   "split",
		Short: "把过长的路切成多段，并给非城池格子加随机扰动",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSplit(cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}
	opts.bind(cmd)
	f := cmd.Flags()
	f.Float64VarP(&opts.dist, "dist", "d", 60, "路的最大长度，<=0 表示不切分")
	f.Float64VarP(&opts.noise, "noise", "n", 15, "扰动幅度，占地图宽高的百分比，<=0 表示不扰动")
	f.Uint64Var(&opts.seed, "seed", 0, "随机种子，0 表示按当前时间")
	return cmd
}

func runSplit(stdin io.Reader, stdout io.Writer, opts *splitOptions) error {
	r, err := opts.read(stdin)
	if err != nil {
		return err
	}
	before := len(r.Map.Cells)
	if opts.dist > 0 {
		if r.Map, err = r.Map.SplitLongRoads(opts.dist); err != nil {
			return err
		}
	}
	if opts.noise > 0 {
		seed := opts.seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		rnd := rand.New(rand.NewPCG(seed, seed))
		xmin, xmax, ymin, ymax := r.Map.Box()
		r.Map.Noise((xmax-xmin)*opts.noise/100, (ymax-ymin)*opts.noise/100, r.CityCells(), rnd.Float64)
	}
	logs.Debug("region split",
		zap.String("region", r.Name),
		zap.Int("cells_before", before),
		zap.Int("cells_after", len(r.Map.Cells)),
	)
	return writeRegion(r, stdout)
}

func newDotCmd() *cobra.Command {
	in := &editInput{}
	cmd := &cobra.Command{
		Use:   "dot",
		Short: "把地图导出为 Graphviz DOT",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := in.read(cmd.InOrStdin())
			if err != nil {
				return err
			}
			return writeDot(r, cmd.OutOrStdout())
		},
	}
	in.bind(cmd)
	return cmd
}

// writeDot 城池格子画成方框，每条无向路输出一次。
func writeDot(r *domain.Region, out io.Writer) error {
	w := bufio.NewWriter(out)
	fmt.Fprintln(w, "graph g {")
	cities := r.CityCells()
	for _, k := range r.Map.Keys() {
		if cities[k] {
			fmt.Fprintf(w, "  %s [shape=box];\n", strconv.Quote(string(k)))
		}
	}
	for _, road := range r.Map.UniqueRoads() {
		fmt.Fprintf(w, "  %s -- %s;\n", strconv.Quote(string(road.Src)), strconv.Quote(string(road.Dst)))
	}
	fmt.Fprintln(w, "}")
	return w.Flush()
}
