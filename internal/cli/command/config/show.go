package config

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Tomas-vilte/MateReview/internal/config"
	"github.com/Tomas-vilte/MateReview/internal/i18n"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newShowCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: t.GetMessage("config.show_usage", 0, nil),
		Action: func(ctx context.Context, command *cli.Command) error {
			fmt.Println(t.GetMessage("config.show_title", 0, nil))
			fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━\n")

			fmt.Println(t.GetMessage("config.show_language", 0, map[string]interface{}{
				"Lang": cfg.Language,
			}))

			activeModel := string(config.DefaultModelForAI(cfg.ActiveAI))
			if entry, ok := cfg.AIProviders[string(cfg.ActiveAI)]; ok && entry.Model != "" {
				activeModel = string(entry.Model)
			}
			fmt.Println(t.GetMessage("config.show_active_ai", 0, map[string]interface{}{
				"Provider": string(cfg.ActiveAI),
				"Model":    activeModel,
			}))

			for _, provider := range sortedKeys(cfg.AIProviders) {
				if cfg.AIProviders[provider].APIKey != "" {
					fmt.Println(t.GetMessage("config.show_api_key_set", 0, map[string]interface{}{
						"Provider": provider,
					}))
				} else {
					fmt.Println(t.GetMessage("config.show_api_key_missing", 0, map[string]interface{}{
						"Provider": provider,
					}))
				}
			}

			if len(cfg.Review.EnabledAgents) == 0 {
				fmt.Println(t.GetMessage("config.show_agents_all", 0, nil))
			} else {
				fmt.Println(t.GetMessage("config.show_agents", 0, map[string]interface{}{
					"Agents": strings.Join(cfg.Review.EnabledAgents, ", "),
				}))
			}

			if budget := cfg.DailyBudget(); budget > 0 {
				fmt.Println(t.GetMessage("config.show_budget", 0, map[string]interface{}{
					"Budget": fmt.Sprintf("%.2f", budget),
				}))
			} else {
				fmt.Println(t.GetMessage("config.show_budget_none", 0, nil))
			}

			if len(cfg.VCSConfigs) == 0 {
				fmt.Println(t.GetMessage("config.show_vcs_none", 0, nil))
			} else {
				for _, name := range sortedKeys(cfg.VCSConfigs) {
					vcs := cfg.VCSConfigs[name]
					target := "-"
					if vcs.Owner != "" && vcs.Repo != "" {
						target = vcs.Owner + "/" + vcs.Repo
					}
					tokenMark := "❌"
					if vcs.Token != "" {
						tokenMark = "✅"
					}
					fmt.Println(t.GetMessage("config.show_vcs", 0, map[string]interface{}{
						"Provider":  name,
						"Target":    target,
						"TokenMark": tokenMark,
					}))
				}
			}

			if cfg.Cache.Enabled {
				fmt.Println(t.GetMessage("config.show_cache_on", 0, map[string]interface{}{
					"Hours": cfg.Cache.TTLHours,
				}))
			} else {
				fmt.Println(t.GetMessage("config.show_cache_off", 0, nil))
			}

			fmt.Println(t.GetMessage("config.show_server", 0, map[string]interface{}{
				"Addr": cfg.Server.Addr,
			}))
			fmt.Println(t.GetMessage("config.show_path", 0, map[string]interface{}{
				"Path": cfg.PathFile,
			}))
			return nil
		},
	}
}

// sortedKeys fija el orden de iteración de los mapas para que el listado
// sea estable entre corridas.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
