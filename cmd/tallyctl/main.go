// tallyctl reads dashboard data from a Tally server, or from the demo data, without running the API server.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/ShrishPande/tallyinsight/internal/adapters/advisory"
	"github.com/ShrishPande/tallyinsight/internal/adapters/datasource"
	"github.com/ShrishPande/tallyinsight/internal/adapters/synthetic"
	"github.com/ShrishPande/tallyinsight/internal/adapters/tally"
	"github.com/ShrishPande/tallyinsight/internal/core/domain"
	portsrepo "github.com/ShrishPande/tallyinsight/internal/core/ports/repositories"
	portssvc "github.com/ShrishPande/tallyinsight/internal/core/ports/services"
	"github.com/ShrishPande/tallyinsight/internal/core/services"
	"github.com/ShrishPande/tallyinsight/internal/platform/config"
	"github.com/ShrishPande/tallyinsight/internal/utils"
	"github.com/urfave/cli/v2"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "tallyctl",
		Usage: "inspect Tally company data from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "base-url", Usage: "Tally XML server", EnvVars: []string{"TALLY_BASE_URL"}, Value: domain.DefaultBaseURL},
			&cli.BoolFlag{Name: "demo", Usage: "use the built-in demo data", EnvVars: []string{"DEMO_MODE"}, Value: true},
			&cli.StringFlag{Name: "from", Usage: "period start (YYYY-MM-DD)", Value: "2024-04-01"},
			&cli.StringFlag{Name: "to", Usage: "period end (YYYY-MM-DD)", Value: "2024-09-30"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log at debug level to stderr"},
		},
		Commands: []*cli.Command{
			{
				Name:   "check",
				Usage:  "check that the Tally server answers",
				Action: runCheck,
			},
			{
				Name:   "companies",
				Usage:  "list companies",
				Action: runCompanies,
			},
			{
				Name:   "dashboard",
				Usage:  "print the KPI cards, monthly trend and alerts",
				Flags:  []cli.Flag{companyFlag()},
				Action: runDashboard,
			},
			{
				Name:      "register",
				Usage:     "print one page of the sales or purchase register",
				ArgsUsage: "sales|purchase",
				Flags: []cli.Flag{
					companyFlag(),
					&cli.IntFlag{Name: "page", Value: 1},
					&cli.IntFlag{Name: "page-size", Value: 10},
				},
				Action: runRegister,
			},
			{
				Name:      "export",
				Usage:     "write a whole register to a CSV or XLSX file",
				ArgsUsage: "sales|purchase",
				Flags: []cli.Flag{
					companyFlag(),
					&cli.StringFlag{Name: "format", Value: "csv", Usage: "csv or xlsx"},
					&cli.StringFlag{Name: "out", Usage: "output file, defaults to the generated file name"},
				},
				Action: runExport,
			},
			{
				Name:  "insight",
				Usage: "generate advisory text for the dashboard",
				Flags: []cli.Flag{
					companyFlag(),
					&cli.StringFlag{Name: "gemini-key", EnvVars: []string{"GEMINI_API_KEY"}},
					&cli.StringFlag{Name: "gemini-model", EnvVars: []string{"GEMINI_MODEL"}, Value: "gemini-2.5-flash"},
				},
				Action: runInsight,
			},
		},
	}
}

func companyFlag() cli.Flag {
	return &cli.StringFlag{Name: "company", Aliases: []string{"c"}, Usage: "company id, defaults to the first company"}
}

// setup builds the same service graph as the API server from the global flags.
func setup(c *cli.Context, advisoryGen portsrepo.AdvisoryGenerator) (*portssvc.ServiceContainer, error) {
	level := slog.LevelWarn
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := &config.Config{
		TallyBaseURL: c.String("base-url"),
		DemoMode:     c.Bool("demo"),
		DefaultFrom:  c.String("from"),
		DefaultTo:    c.String("to"),
	}
	if _, err := domain.ParseDateRange(cfg.DefaultFrom, cfg.DefaultTo); err != nil {
		return nil, err
	}

	client := tally.NewClient()
	repos := portsrepo.RepositoryProvider{
		Sources:   datasource.NewFactory(client, synthetic.NewSource()),
		Transport: client,
		Advisory:  advisoryGen,
	}
	return services.NewServiceContainer(cfg, repos), nil
}

// refresh connects, selects --company when given and returns the dashboard.
func refresh(c *cli.Context, svc *portssvc.ServiceContainer) (*domain.DashboardBundle, domain.Company, error) {
	ctx := c.Context
	if id := c.String("company"); id != "" {
		if _, err := svc.Session.SelectCompany(ctx, id); err != nil {
			return nil, domain.Company{}, err
		}
	}
	bundle, err := svc.Session.Dashboard(ctx)
	if err != nil {
		return nil, domain.Company{}, err
	}
	company, _ := svc.Session.Snapshot().SelectedCompany()
	return bundle, company, nil
}

func runCheck(c *cli.Context) error {
	svc, err := setup(c, nil)
	if err != nil {
		return err
	}
	cfg := svc.Session.Snapshot().Config
	if !svc.Acquisition.CheckConnection(c.Context, cfg) {
		return fmt.Errorf("%s is not reachable", cfg.BaseURL)
	}
	if cfg.IsDemoMode {
		fmt.Fprintln(c.App.Writer, "demo mode: always reachable")
		return nil
	}
	fmt.Fprintf(c.App.Writer, "%s is reachable\n", cfg.BaseURL)
	return nil
}

func runCompanies(c *cli.Context) error {
	svc, err := setup(c, nil)
	if err != nil {
		return err
	}
	companies, err := svc.Acquisition.ListCompanies(c.Context, svc.Session.Snapshot().Config)
	if err != nil {
		return err
	}
	w := table(c.App.Writer)
	fmt.Fprintln(w, "ID\tNAME\tGSTIN\tCURRENCY")
	for _, co := range companies {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", co.ID, co.Name, co.TaxID, co.Currency)
	}
	return w.Flush()
}

func runDashboard(c *cli.Context) error {
	svc, err := setup(c, nil)
	if err != nil {
		return err
	}
	bundle, company, err := refresh(c, svc)
	if err != nil {
		return err
	}
	printDashboard(c.App.Writer, bundle, company, svc.Session.Snapshot().DateRange)
	return nil
}

func printDashboard(out io.Writer, bundle *domain.DashboardBundle, company domain.Company, period domain.DateRange) {
	fmt.Fprintf(out, "%s (%s)  %s\n\n", company.Name, company.ID, period)

	w := table(out)
	fmt.Fprintf(w, "Revenue\t%s\n", utils.FormatCurrency(bundle.KPIs.Revenue, company.Currency))
	fmt.Fprintf(w, "Net Profit\t%s\n", utils.FormatCurrency(bundle.KPIs.NetProfit, company.Currency))
	fmt.Fprintf(w, "Cash Balance\t%s\n", utils.FormatCurrency(bundle.KPIs.CashBalance, company.Currency))
	fmt.Fprintf(w, "GST Payable\t%s\n", utils.FormatCurrency(bundle.KPIs.GSTPayable, company.Currency))
	_ = w.Flush()

	fmt.Fprintln(out)
	w = table(out)
	fmt.Fprintln(w, "MONTH\tSALES\tPURCHASE\tEXPENSES")
	for _, m := range bundle.Monthly {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Month, m.Sales, m.Purchase, m.Expenses)
	}
	_ = w.Flush()

	if len(bundle.Alerts) == 0 {
		return
	}
	fmt.Fprintln(out)
	for _, a := range bundle.Alerts {
		fmt.Fprintf(out, "[%s] %s  %s\n", a.Severity, a.Date, a.Message)
	}
}

func parseKindArg(c *cli.Context) (domain.RegisterKind, error) {
	kind, ok := domain.ParseRegisterKind(c.Args().First())
	if !ok {
		return "", fmt.Errorf("expected sales or purchase, got %q", c.Args().First())
	}
	return kind, nil
}

// companyOrFirst resolves --company, or the first listed company.
func companyOrFirst(c *cli.Context, svc *portssvc.ServiceContainer) (domain.Company, error) {
	cfg := svc.Session.Snapshot().Config
	companies, err := svc.Acquisition.ListCompanies(c.Context, cfg)
	if err != nil {
		return domain.Company{}, err
	}
	id := c.String("company")
	if id == "" {
		if len(companies) == 0 {
			return domain.Company{}, fmt.Errorf("no companies on %s", cfg.BaseURL)
		}
		return companies[0], nil
	}
	company, ok := domain.FindCompany(companies, id)
	if !ok {
		return domain.Company{}, fmt.Errorf("unknown company %q", id)
	}
	return company, nil
}

func runRegister(c *cli.Context) error {
	kind, err := parseKindArg(c)
	if err != nil {
		return err
	}
	svc, err := setup(c, nil)
	if err != nil {
		return err
	}
	company, err := companyOrFirst(c, svc)
	if err != nil {
		return err
	}
	page, err := svc.Acquisition.FetchRegister(c.Context, svc.Session.Snapshot().Config, kind, company.ID, c.Int("page"), c.Int("page-size"))
	if err != nil {
		return err
	}

	w := table(c.App.Writer)
	fmt.Fprintln(w, "DATE\tINVOICE\tPARTY\tAMOUNT\tSTATUS")
	for _, t := range page.Rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.Date.Format(domain.DateLayout), t.InvoiceNo, t.PartyName, utils.FormatCurrency(t.Amount, company.Currency), t.Status)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "\npage %d, %d of %d rows\n", page.Page, len(page.Rows), page.TotalCount)
	return nil
}

func runExport(c *cli.Context) error {
	kind, err := parseKindArg(c)
	if err != nil {
		return err
	}
	format, ok := domain.ParseExportFormat(c.String("format"))
	if !ok {
		return fmt.Errorf("unsupported format %q", c.String("format"))
	}
	svc, err := setup(c, nil)
	if err != nil {
		return err
	}
	company, err := companyOrFirst(c, svc)
	if err != nil {
		return err
	}

	file, err := svc.Export.ExportRegister(c.Context, domain.ExportRequest{
		Config:    svc.Session.Snapshot().Config,
		Kind:      kind,
		CompanyID: company.ID,
		Format:    format,
	})
	if err != nil {
		return err
	}

	out := c.String("out")
	if out == "" {
		out = file.FileName
	}
	if err := os.WriteFile(out, file.Content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Fprintf(c.App.Writer, "wrote %d records to %s\n", file.RecordsExported, out)
	return nil
}

func runInsight(c *cli.Context) error {
	var gen portsrepo.AdvisoryGenerator
	if key := c.String("gemini-key"); key != "" {
		gemini, err := advisory.NewGeminiClient(c.Context, key, advisory.WithModel(c.String("gemini-model")))
		if err != nil {
			return err
		}
		gen = gemini
	}
	svc, err := setup(c, gen)
	if err != nil {
		return err
	}
	bundle, _, err := refresh(c, svc)
	if err != nil {
		return err
	}

	insight := svc.Insight.InsightForDashboard(c.Context, bundle)
	fmt.Fprintf(c.App.Writer, "Summary: %s\nRecommendation: %s\nRisk: %s\n",
		insight.Summary, insight.Recommendation, insight.RiskAssessment)
	return nil
}

func table(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}
