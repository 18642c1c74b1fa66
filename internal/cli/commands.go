package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wdm0006/synthprep/internal/config"
	"github.com/wdm0006/synthprep/pkg/clean"
	"github.com/wdm0006/synthprep/pkg/frame"
	"github.com/wdm0006/synthprep/pkg/io/dataset"
	"github.com/wdm0006/synthprep/pkg/metadata"
	"github.com/wdm0006/synthprep/pkg/prep"
	"github.com/wdm0006/synthprep/pkg/profile"
)

// loadInput reads the input file, applies the cleaning steps and loads
// its metadata. Without a metadata file the columns are inferred from the
// data and the metadata is described from the cleaned frame.
func loadInput(ctx context.Context, s *config.Settings) (*frame.Frame, *metadata.Metadata, error) {
	if s.Input.Path == "" {
		return nil, nil, fmt.Errorf("no input given; set input.path or --input")
	}
	opt, err := s.DatasetOptions(s.Input)
	if err != nil {
		return nil, nil, err
	}
	cleaner, err := clean.Build(s.Clean)
	if err != nil {
		return nil, nil, err
	}
	log := logger(ctx)
	if s.Metadata != "" {
		md, err := metadata.Load(s.Metadata)
		if err != nil {
			return nil, nil, err
		}
		f, err := dataset.Read(s.Input.Path, md.Schema(), opt)
		if err != nil {
			return nil, nil, err
		}
		if f, err = cleaner.Run(ctx, f); err != nil {
			return nil, nil, err
		}
		log.Info("loaded input", "path", s.Input.Path, "rows", f.Rows(), "metadata", s.Metadata)
		return f, md, nil
	}
	f, err := dataset.Read(s.Input.Path, frame.Schema{}, opt)
	if err != nil {
		return nil, nil, err
	}
	if f, err = cleaner.Run(ctx, f); err != nil {
		return nil, nil, err
	}
	md, err := profile.Describe(f)
	if err != nil {
		return nil, nil, err
	}
	log.Info("loaded input", "path", s.Input.Path, "rows", f.Rows(), "global_na", md.GlobalNA())
	return f, md, nil
}

func newOrchestrator(ctx context.Context, s *config.Settings, md *metadata.Metadata) (*prep.Orchestrator, error) {
	opts := []prep.Option{prep.WithLogger(logger(ctx))}
	if s.Seed != nil {
		opts = append(opts, prep.WithSeed(*s.Seed))
	}
	return prep.NewFromRaw(md, s.Processors, opts...)
}

func writeOutput(ctx context.Context, s *config.Settings, dst config.IOSettings, f *frame.Frame) error {
	opt, err := s.DatasetOptions(dst)
	if err != nil {
		return err
	}
	if err := dataset.Write(dst.Path, f, opt); err != nil {
		return err
	}
	logger(ctx).Info("wrote output", "path", dst.Path, "rows", f.Rows())
	return nil
}

func newProfileCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "profile [files...]",
		Short: "Summarise columns of one or more data files",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := settings(cmd.Context())
			if err != nil {
				return err
			}
			paths := args
			if len(paths) == 0 && s.Input.Path != "" {
				paths = []string{s.Input.Path}
			}
			if len(paths) == 0 {
				return fmt.Errorf("no files to profile")
			}
			opt, err := s.DatasetOptions(s.Input)
			if err != nil {
				return err
			}
			load := func(_ context.Context, path string) (*frame.Frame, error) {
				return dataset.Read(path, frame.Schema{}, opt)
			}
			cs, err := profile.Files(cmd.Context(), paths, load, s.TopK, limit)
			if err != nil {
				return err
			}
			for i, c := range cs {
				c.Report(cmd.OutOrStdout(), paths[i])
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "parallel", 4, "files profiled at once")
	cmd.Flags().Int("top-k", 0, "most frequent values shown per text column")
	return cmd
}

func newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config [columns...]",
		Short: "Print the resolved processor of every stage and column",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := settings(ctx)
			if err != nil {
				return err
			}
			_, md, err := loadInput(ctx, s)
			if err != nil {
				return err
			}
			o, err := newOrchestrator(ctx, s, md)
			if err != nil {
				return err
			}
			return o.PrintConfig(cmd.OutOrStdout(), args...)
		},
	}
}

// fitTransform loads the input, fits the orchestrator and transforms the
// input with it.
func fitTransform(ctx context.Context, s *config.Settings) (*prep.Orchestrator, *frame.Frame, error) {
	f, md, err := loadInput(ctx, s)
	if err != nil {
		return nil, nil, err
	}
	stages, err := s.Stages()
	if err != nil {
		return nil, nil, err
	}
	o, err := newOrchestrator(ctx, s, md)
	if err != nil {
		return nil, nil, err
	}
	if err := o.Fit(ctx, f, stages...); err != nil {
		return nil, nil, err
	}
	out, err := o.Transform(ctx, f)
	if err != nil {
		return nil, nil, err
	}
	return o, out, nil
}

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fit the processors on the input and write the transformed table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := settings(ctx)
			if err != nil {
				return err
			}
			if s.Output.Path == "" {
				return fmt.Errorf("no output given; set output.path or --output")
			}
			_, out, err := fitTransform(ctx, s)
			if err != nil {
				return err
			}
			return writeOutput(ctx, s, s.Output, out)
		},
	}
	cmd.Flags().String("output", "", "transformed output file")
	return cmd
}

func newRoundtripCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roundtrip",
		Short: "Fit, transform and invert the input, writing both results",
		Long: `roundtrip fits the processors on the input, transforms it and maps the
transformed table back through the inverse stages, re-inserting missing
values at the metadata rates. It exercises the path synthetic data takes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := settings(ctx)
			if err != nil {
				return err
			}
			if s.InverseOutput.Path == "" {
				return fmt.Errorf("no inverse output given; set inverse_output.path or --inverse-output")
			}
			o, out, err := fitTransform(ctx, s)
			if err != nil {
				return err
			}
			if s.Output.Path != "" {
				if err := writeOutput(ctx, s, s.Output, out); err != nil {
					return err
				}
			}
			back, err := o.InverseTransform(ctx, out)
			if err != nil {
				return err
			}
			return writeOutput(ctx, s, s.InverseOutput, back)
		},
	}
	cmd.Flags().String("output", "", "transformed output file")
	cmd.Flags().String("inverse-output", "", "inverted output file")
	return cmd
}
