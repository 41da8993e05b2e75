package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lazyspec.dev/pkg/lazyspec/internal/prompt"
	"lazyspec.dev/pkg/lazyspec/internal/scaffold"
)

var generatePackageFlag string
var generateOutputFlag string
var generateValuesFlag []string
var generateSubjectFlag bool
var interactiveFlag bool
var forceFlag bool

// generateCmd represents the generate command.
var generateCmd = newGenerateCmd()

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [description]",
		Short: "Render a spec file skeleton",
		Long: `Render a _test.go skeleton declaring a group with let and subject
definitions, driven by the lettest harness. The file lands in the output
directory under a name derived from the description.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := scaffold.Data{
				Package: viper.GetString(generatePackageKey),
				Subject: viper.GetBool(generateSubjectKey),
				Values:  generateValuesFlag,
			}

			if len(args) == 1 {
				data.Description = args[0]
			}

			if interactiveFlag {
				result, err := prompt.Run(cmd.OutOrStdout(), prompt.Result{
					Package:     data.Package,
					Description: data.Description,
					Values:      data.Values,
				})
				if err != nil {
					return fmt.Errorf("interactive prompt: %w", err)
				}

				if result.Canceled {
					return nil
				}

				data.Package = result.Package
				data.Description = result.Description
				data.Values = result.Values
			}

			return writeSkeleton(cmd, data)
		},
	}

	configureGenerateFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func configureGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&generatePackageFlag, packageFlagName, "p", viper.GetString(generatePackageKey), "package name for the generated file")
	bindFlagToConfig(cmd.Flags().Lookup(packageFlagName), generatePackageKey)

	cmd.Flags().StringVarP(&generateOutputFlag, outputFlagName, "o", viper.GetString(generateOutputKey), "output directory for the generated file")
	bindFlagToConfig(cmd.Flags().Lookup(outputFlagName), generateOutputKey)

	cmd.Flags().BoolVar(&generateSubjectFlag, subjectFlagName, viper.GetBool(generateSubjectKey), "declare a subject in the skeleton")
	bindFlagToConfig(cmd.Flags().Lookup(subjectFlagName), generateSubjectKey)

	cmd.Flags().StringSliceVar(&generateValuesFlag, valuesFlagName, nil, "value names to declare (comma separated or repeated)")
	cmd.Flags().BoolVarP(&interactiveFlag, interactiveFlagName, "i", false, "collect inputs with an interactive form")
	cmd.Flags().BoolVarP(&forceFlag, forceFlagName, "f", false, "overwrite an existing file")
}

func writeSkeleton(cmd *cobra.Command, data scaffold.Data) error {
	rendered, err := scaffold.Render(data)
	if err != nil {
		return err
	}

	target := filepath.Join(viper.GetString(generateOutputKey), scaffold.Filename(data.Description))

	if !forceFlag {
		if _, err := os.Stat(target); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", target)
		}
	}

	if err := os.WriteFile(target, rendered, 0o644); err != nil {
		return fmt.Errorf("write skeleton: %w", err)
	}

	slog.Debug("generated spec skeleton", "path", target, "package", data.Package)

	cmd.Printf("generated %s\n", target)

	return nil
}
