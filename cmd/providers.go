package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mcqgen/internal/llm"
	"github.com/abhisek/mcqgen/internal/questiongen"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List configured LLM providers and routing chains",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "%-12s  %-40s  %s\n", "Provider", "Default model", "Key")
		fmt.Fprintln(out, strings.Repeat("─", 60))
		for _, p := range e.Providers() {
			key := "✗"
			if p.HasCredential {
				key = "✓"
			}
			model := p.Model
			if len(model) > 40 {
				model = model[:40]
			}
			fmt.Fprintf(out, "%-12s  %-40s  %s\n", p.ID, model, key)
		}

		fmt.Fprintln(out)
		fmt.Fprintf(out, "light (≤ %d questions): %s\n", cfg.Routing.HeavyThreshold, chainString(cfg.Routing.Light))
		fmt.Fprintf(out, "heavy (> %d or image):  %s\n", cfg.Routing.HeavyThreshold, chainString(cfg.Routing.Heavy))
		audit := cfg.Routing.Audit
		if len(audit) == 0 {
			audit = cfg.Routing.Light
		}
		fmt.Fprintf(out, "audit:                 %s\n", chainString(audit))

		if !cfg.LLM.HasCredential(llm.ProviderGroq) && !cfg.LLM.HasCredential(llm.ProviderOpenRouter) {
			fmt.Fprintln(out, "\nNo light-chain credentials found; set GROQ_API_KEY or OPENROUTER_API_KEY.")
		}
		return nil
	},
}

func chainString(chain questiongen.Chain) string {
	links := make([]string, len(chain))
	for i, l := range chain {
		links[i] = l.String()
	}
	return strings.Join(links, " → ")
}
