package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/ffp"
	"github.com/gogpu/ffp/compiler"
	"github.com/gogpu/ffp/settings"
)

func newDefaultsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "defaults",
		Short: "Print the default pipeline settings as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := settings.Defaults()
			return settings.Encode(cmd.OutOrStdout(), &s)
		},
	}
}

func newGenerateCommand(o *options) *cobra.Command {
	var (
		stage    string
		bindings bool
	)
	cmd := &cobra.Command{
		Use:   "generate [settings.toml]",
		Short: "Print the programs generated for pipeline settings",
		Long: "Generate prints the vertex and fragment programs for a settings document,\n" +
			"or for the default settings when no file is given. Use - to read stdin.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			ps, err := loadSettings(path)
			if err != nil {
				return err
			}
			s := o.session()
			defer s.Close()

			vp, fp, err := s.GeneratePrograms(&ps, nil, nil)
			if err != nil {
				return err
			}
			var variants []*ffp.ShaderVariant
			switch strings.ToLower(stage) {
			case "vertex":
				variants = append(variants, vp)
			case "fragment":
				variants = append(variants, fp)
			case "", "all":
				variants = append(variants, vp, fp)
			default:
				return fmt.Errorf("unknown stage %q", stage)
			}

			w := cmd.OutOrStdout()
			p := printer()
			for _, v := range variants {
				fmt.Fprintln(w, v.Source)
				p.Fprintf(w, "# %v: %d instructions, %d parameters\n", v.Stage, v.Instructions, v.Parameters)
				if bindings {
					for _, d := range v.Bindings {
						fmt.Fprintf(w, "#   %s\n", d)
					}
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&stage, "stage", "all", "program to print: vertex, fragment or all")
	cmd.Flags().BoolVar(&bindings, "bindings", false, "list the constant bindings of each program")
	return cmd
}

func newCompileCommand(o *options) *cobra.Command {
	var disasm bool
	cmd := &cobra.Command{
		Use:   "compile program...",
		Short: "Compile ARB assembly or WGSL program files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := o.session()
			defer s.Close()

			w := cmd.OutOrStdout()
			p := printer()
			for _, path := range args {
				src, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				res, err := s.CompileProgram(string(src))
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(w, "%s: %s\n", path, res.Log)
				p.Fprintf(w, "  %d bytes, %d parameters\n", len(res.Code), res.Parameters)
				for unit, dim := range res.Usage.Texture {
					if dim != 0 {
						fmt.Fprintf(w, "  texture[%d] %v\n", unit, dim)
					}
				}
				if res.Usage.Kill {
					fmt.Fprintln(w, "  kills fragments")
				}
				if disasm && res.Model != compiler.ModelWGSL {
					_, ops, err := compiler.Decode(res.Code)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					for i, op := range ops {
						fmt.Fprintf(w, "  %3d %s\n", i, op)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&disasm, "disassemble", "d", false, "list the encoded instructions of ARB programs")
	return cmd
}

func newStatsCommand(o *options) *cobra.Command {
	var (
		capacity int
		repeat   int
		memo     int
	)
	cmd := &cobra.Command{
		Use:   "stats settings.toml...",
		Short: "Request the programs for each settings file and report cache statistics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			all := make([]settings.PipelineSettings, 0, len(args))
			for _, path := range args {
				ps, err := loadSettings(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				all = append(all, ps)
			}

			s := o.session(ffp.WithCapacity(capacity), ffp.WithCompileMemo(memo))
			defer s.Close()
			for i := 0; i < repeat; i++ {
				for j := range all {
					if _, _, err := s.GeneratePrograms(&all[j], nil, nil); err != nil {
						return fmt.Errorf("%s: %w", args[j], err)
					}
				}
			}

			st := s.Stats()
			w := cmd.OutOrStdout()
			p := printer()
			p.Fprintf(w, "requests:  %d\n", repeat*len(all))
			p.Fprintf(w, "compiles:  %d\n", st.Compiles)
			fmt.Fprintf(w, "vertex:    %s\n", st.Vertex)
			fmt.Fprintf(w, "fragment:  %s\n", st.Fragment)
			if memo > 0 {
				p.Fprintf(w, "memo:      %d hits, %d misses\n", st.MemoHits, st.MemoMisses)
			}

			log := s.CompilationLog()
			fmt.Fprintf(w, "last vertex:   %s\n", log.Vertex.Message)
			fmt.Fprintf(w, "last fragment: %s\n", log.Fragment.Message)
			return nil
		},
	}
	cmd.Flags().IntVar(&capacity, "capacity", 0, "variants per cache (0 for the default)")
	cmd.Flags().IntVar(&repeat, "repeat", 1, "number of passes over the settings files")
	cmd.Flags().IntVar(&memo, "memo", 0, "compile memo entries (0 disables the memo)")
	return cmd
}
