package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/stackform/stackform/pkg/config"
)

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a manifest without rendering",
		Long: `Validate loads the manifest and checks it without producing output.

This command checks:
  - CUE or YAML syntax validity
  - Starlark script evaluation
  - Variable references
  - Structural constraints on the manifest
  - That every resource type has a registered builder`,
		Example: `  # Validate the default manifest
  stackform validate

  # Validate a specific manifest
  stackform validate -m stacks/web.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Info().Str("manifest", manifestPath).Msg("Validating manifest")

			loader := config.NewLoader()
			manifest, err := loader.Load(cmd.Context(), manifestPath)
			if err != nil {
				return fmt.Errorf("loading manifest: %w", err)
			}

			reg, err := newRegistry()
			if err != nil {
				return err
			}
			for _, res := range manifest.Stack.Resources {
				if _, err := reg.Builder(res.Type); err != nil {
					return fmt.Errorf("resource %s: %w", res.ID, err)
				}
			}

			if jsonOutput {
				result := map[string]any{
					"valid":     true,
					"stack":     manifest.Stack.Name,
					"resources": len(manifest.Stack.Resources),
					"tweaks":    len(manifest.Stack.Tweaks),
				}
				return json.NewEncoder(os.Stdout).Encode(result)
			}

			fmt.Printf("Manifest is valid: stack %q with %d resources and %d tweaks\n",
				manifest.Stack.Name, len(manifest.Stack.Resources), len(manifest.Stack.Tweaks))
			return nil
		},
	}

	return cmd
}
