package stats

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Tomas-vilte/MateReview/internal/cli/completion_helper"
	"github.com/Tomas-vilte/MateReview/internal/config"
	"github.com/Tomas-vilte/MateReview/internal/i18n"
	"github.com/Tomas-vilte/MateReview/internal/services/cost"
	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
)

type StatsCommand struct{}

func NewStatsCommand() *StatsCommand {
	return &StatsCommand{}
}

func (c *StatsCommand) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "stats",
		Aliases: []string{"cost"},
		Usage:   t.GetMessage("stats.usage", 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "monthly",
				Aliases: []string{"m"},
				Usage:   t.GetMessage("stats.monthly_flag", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			manager, err := cost.NewManager(0)
			if err != nil {
				return fmt.Errorf(t.GetMessage("stats.error_init", 0, nil)+": %w", err)
			}

			if cmd.Bool("monthly") {
				return c.showMonthlyStats(manager, t)
			}
			return c.showDailyStats(manager, t)
		},
	}
}

func (c *StatsCommand) showDailyStats(manager *cost.Manager, t *i18n.Translations) error {
	total, err := manager.GetDailyTotal()
	if err != nil {
		return err
	}
	records, err := manager.GetHistory()
	if err != nil {
		return err
	}

	today := time.Now().Format("2006-01-02")
	var todayRecords []cost.ActivityRecord
	for _, r := range records {
		if r.Timestamp.Format("2006-01-02") == today {
			todayRecords = append(todayRecords, r)
		}
	}

	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	fmt.Printf("\n%s\n", cyan.Sprintf("📊 %s", t.GetMessage("stats.daily_title", 0, nil)))
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	if len(todayRecords) == 0 {
		fmt.Printf("\n%s\n\n", t.GetMessage("stats.no_activity", 0, nil))
		return nil
	}

	for _, record := range todayRecords {
		findings := ""
		if record.Findings > 0 {
			findings = " (" + t.GetMessage("stats.findings", record.Findings, map[string]interface{}{
				"Count": record.Findings,
			}) + ")"
		}
		cacheIndicator := ""
		if record.CacheHits > 0 {
			cacheIndicator = green.Sprint(" [CACHE]")
		}
		fmt.Printf("%s - %s: %s%s%s\n",
			record.Timestamp.Format("15:04"),
			record.Command,
			yellow.Sprintf("$%.4f", record.CostUSD),
			findings,
			cacheIndicator,
		)
	}

	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("%s %s\n\n",
		cyan.Sprintf("%s:", t.GetMessage("stats.total_today", 0, nil)),
		yellow.Sprintf("$%.4f USD", total))
	return nil
}

func (c *StatsCommand) showMonthlyStats(manager *cost.Manager, t *i18n.Translations) error {
	total, err := manager.GetMonthlyTotal()
	if err != nil {
		return err
	}
	records, err := manager.GetHistory()
	if err != nil {
		return err
	}

	currentMonth := time.Now().Format("2006-01")
	dailyTotals := make(map[string]float64)
	for _, r := range records {
		if r.Timestamp.Format("2006-01") == currentMonth {
			day := r.Timestamp.Format("2006-01-02")
			dailyTotals[day] += r.CostUSD
		}
	}

	cyan := color.New(color.FgCyan, color.Bold)
	yellow := color.New(color.FgYellow)

	fmt.Printf("\n%s\n", cyan.Sprintf("📅 %s", t.GetMessage("stats.monthly_title", 0, map[string]interface{}{
		"Month": time.Now().Format("January 2006"),
	})))
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	if len(dailyTotals) == 0 {
		fmt.Printf("\n%s\n\n", t.GetMessage("stats.no_activity", 0, nil))
		return nil
	}

	days := make([]string, 0, len(dailyTotals))
	for day := range dailyTotals {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		fmt.Printf("%s: %s\n", day, yellow.Sprintf("$%.4f", dailyTotals[day]))
	}

	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("%s %s\n\n",
		cyan.Sprintf("%s:", t.GetMessage("stats.total_month", 0, nil)),
		yellow.Sprintf("$%.4f USD", total))
	return nil
}
