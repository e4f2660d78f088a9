package commands

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/smolensk-traffic/portal/internal/cli/output"
	"github.com/smolensk-traffic/portal/internal/models"
	"github.com/smolensk-traffic/portal/internal/publicinfo"
	"github.com/smolensk-traffic/portal/internal/view"
)

// listCommand describes a command that prints one collection as a table
type listCommand[T any] struct {
	use     string
	short   string
	title   string
	empty   string
	headers []string
	fetch   func(*publicinfo.Service, context.Context) ([]T, error)
	row     func(T) []string
}

func (l listCommand[T]) build(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   l.use,
		Short: l.short,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := loadPage(cmd.Context(), env, func(ctx context.Context) ([]T, error) {
				return l.fetch(env.Info, ctx)
			})
			if err != nil {
				return err
			}

			env.Printer.Header(l.title)
			printRows(env.Printer, l.empty, l.headers, page.Data, l.row)
			return nil
		},
	}
}

// loadPage resolves a page and turns a failed one into an error
func loadPage[T any](ctx context.Context, env *Env, fetch func(context.Context) (T, error)) (view.Page[T], error) {
	page, err := view.Load(ctx, fetch)
	if err != nil {
		return page, err
	}
	switch {
	case page.Status == view.StatusFailed:
		return page, fmt.Errorf("%s: %w", page.Message, page.Err)
	case page.Unrecognized():
		env.Printer.Warning("%s", page.Message)
	}
	return page, nil
}

func printRows[T any](p *output.Printer, empty string, headers []string, items []T, row func(T) []string) {
	if len(items) == 0 {
		p.Print("%s", empty)
		return
	}
	table := output.NewTable(p.Out(), headers...)
	for _, it := range items {
		table.AddRow(row(it)...)
	}
	table.Render()
}

func teamRow(m models.TeamMember) []string {
	return []string{m.Name, m.Position, m.Experience}
}

func newsRow(n models.NewsItem) []string {
	date := ""
	if !n.Date.IsZero() {
		date = n.Date.Format("02.01.2006")
	}
	return []string{date, n.Title, n.Tag}
}

func serviceRow(s models.Service) []string {
	return []string{s.Title, s.Category, view.FormatCurrency(s.Price)}
}

func projectRow(p models.Project) []string {
	return []string{p.Title, p.Category, p.Status}
}

// NewTeamCmd creates the team command
func NewTeamCmd(env *Env) *cobra.Command {
	return listCommand[models.TeamMember]{
		use:     "team",
		short:   "List team members",
		title:   "Team",
		empty:   "No team members found.",
		headers: []string{"Name", "Position", "Experience"},
		fetch:   (*publicinfo.Service).Team,
		row:     teamRow,
	}.build(env)
}

// NewNewsCmd creates the news command
func NewNewsCmd(env *Env) *cobra.Command {
	return listCommand[models.NewsItem]{
		use:     "news",
		short:   "List news",
		title:   "News",
		empty:   "No news found.",
		headers: []string{"Date", "Title", "Tag"},
		fetch:   (*publicinfo.Service).News,
		row:     newsRow,
	}.build(env)
}

// NewServicesCmd creates the services command
func NewServicesCmd(env *Env) *cobra.Command {
	return listCommand[models.Service]{
		use:     "services",
		short:   "List offered services",
		title:   "Services",
		empty:   "No services found.",
		headers: []string{"Title", "Category", "Price"},
		fetch:   (*publicinfo.Service).Services,
		row:     serviceRow,
	}.build(env)
}

// NewProjectsCmd creates the projects command
func NewProjectsCmd(env *Env) *cobra.Command {
	return listCommand[models.Project]{
		use:     "projects",
		short:   "List projects",
		title:   "Projects",
		empty:   "No projects found.",
		headers: []string{"Title", "Category", "Status"},
		fetch:   (*publicinfo.Service).Projects,
		row:     projectRow,
	}.build(env)
}

// NewHomeCmd creates the home command
func NewHomeCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Show the main page: latest news, projects and services",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := loadPage(cmd.Context(), env, env.Info.Home)
			if err != nil {
				return err
			}

			home := page.Data
			if home == nil {
				home = &publicinfo.Home{}
			}

			env.Printer.Header("News")
			printRows(env.Printer, "No news found.", []string{"Date", "Title", "Tag"}, home.News, newsRow)
			env.Printer.Header("Projects")
			printRows(env.Printer, "No projects found.", []string{"Title", "Category", "Status"}, home.Projects, projectRow)
			env.Printer.Header("Services")
			printRows(env.Printer, "No services found.", []string{"Title", "Category", "Price"}, home.Services, serviceRow)
			return nil
		},
	}
}

// NewTrafficCmd creates the traffic command
func NewTrafficCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "traffic",
		Short: "Show traffic lights by type and install year",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := loadPage(cmd.Context(), env, env.Info.Traffic)
			if err != nil {
				return err
			}

			if page.Data == nil {
				env.Printer.Print("No traffic data available.")
				return nil
			}

			env.Printer.Header("Traffic lights by type")
			printCounts(env.Printer, "Type", page.Data.LightTypes)
			env.Printer.Header("Traffic lights by install year")
			printCounts(env.Printer, "Year", page.Data.InstallYears)
			return nil
		},
	}
}

func printCounts(p *output.Printer, label string, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	printRows(p, "None.", []string{label, "Count"}, keys, func(k string) []string {
		return []string{k, strconv.Itoa(counts[k])}
	})
}
