package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mtpmedia/mtp-newsletter/app/api"
	"github.com/mtpmedia/mtp-newsletter/app/cfg"
	"github.com/mtpmedia/mtp-newsletter/app/database"
	"github.com/mtpmedia/mtp-newsletter/app/feed"
	"github.com/mtpmedia/mtp-newsletter/app/newsletter"
	"github.com/mtpmedia/mtp-newsletter/app/pdf"
	"github.com/mtpmedia/mtp-newsletter/app/templates"
)

type rootOptions struct {
	cfg.Options

	Init      initCmd      `command:"init" description:"Initialize schema and runtime directories"`
	Cache     cacheCmd     `command:"cache" description:"Product cache operations"`
	Templates templatesCmd `command:"templates" description:"Template operations"`
	Generate  generateCmd  `command:"generate" description:"Generate a newsletter"`
	Runs      runsCmd      `command:"runs" description:"Run metadata operations"`
	Serve     serveCmd     `command:"serve" description:"Serve the read-only HTTP API"`
}

type cacheCmd struct {
	Refresh cacheRefreshCmd `command:"refresh" description:"Refresh the product cache from the MTP API"`
}

type templatesCmd struct {
	List     templatesListCmd     `command:"list" description:"List templates"`
	Validate templatesValidateCmd `command:"validate" description:"Validate a template file"`
	Install  templatesInstallCmd  `command:"install" description:"Install the bundled starter templates"`
}

type runsCmd struct {
	List runsListCmd `command:"list" description:"List recent runs"`
	Show runsShowCmd `command:"show" description:"Show run details"`
}

// openDatabase opens the exclusive session and brings the schema up to
// date. Every data-touching command goes through here.
func openDatabase() (*database.DB, error) {
	c := cfg.Get()

	if err := c.EnsureRuntimeDirectories(); err != nil {
		return nil, err
	}

	db, err := database.NewConnection(c.DBPath)
	if err != nil {
		return nil, err
	}

	if _, _, err := database.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

type initCmd struct{}

func (cmd *initCmd) Execute(args []string) error {
	c := cfg.Get()

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Println("Initialized newsletter service")
	fmt.Printf("DB: %s\n", c.DBPath)
	fmt.Printf("Templates: %s\n", c.TemplateDir)
	fmt.Printf("Output: %s\n", c.OutputDir)
	return nil
}

type cacheRefreshCmd struct{}

func (cmd *cacheRefreshCmd) Execute(args []string) error {
	c := cfg.Get()

	if err := c.RequireAPICredentials(); err != nil {
		return err
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	client := feed.NewClient(c.APIServiceURL, c.APIUsername, c.APIPassword, c.UserAgent)
	reconciler := feed.NewReconciler(client, database.NewProductRepository(db))

	count, err := reconciler.Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("Refreshed MTP cache: %d products\n", count)
	return nil
}

type templatesListCmd struct{}

func (cmd *templatesListCmd) Execute(args []string) error {
	found, err := templates.List(cfg.Get().TemplateDir)
	if err != nil {
		return err
	}

	if len(found) == 0 {
		fmt.Println("No templates found")
		return nil
	}

	for _, tmpl := range found {
		fmt.Printf("%s\t%s\t%s\n", tmpl.Name, tmpl.Language, tmpl.Path)
	}
	return nil
}

type templatesValidateCmd struct {
	Template string `long:"template" required:"true" description:"Template file path"`
}

func (cmd *templatesValidateCmd) Execute(args []string) error {
	if err := templates.Validate(cmd.Template); err != nil {
		return err
	}
	fmt.Printf("Template valid: %s\n", cmd.Template)
	return nil
}

type templatesInstallCmd struct {
	Overwrite bool `long:"overwrite" description:"Overwrite existing template files"`
}

func (cmd *templatesInstallCmd) Execute(args []string) error {
	targetDir := cfg.Get().TemplateDir
	copied, err := templates.Install(targetDir, cmd.Overwrite)
	if err != nil {
		return err
	}
	fmt.Printf("Installed %d templates to %s\n", copied, targetDir)
	return nil
}

type generateCmd struct {
	Template     string `long:"template" required:"true" description:"Template name without language suffix"`
	Language     string `long:"language" required:"true" choice:"de" choice:"en" description:"Template language"`
	ProductsFile string `long:"products-file" required:"true" description:"Path to the products request file"`
	ValidityDate string `long:"validity-date" description:"Validity date YYYY-MM-DD"`
	PDF          bool   `long:"pdf" description:"Generate a PDF alongside the HTML"`
	OutputDir    string `long:"output-dir" description:"Override the output directory"`
}

func (cmd *generateCmd) Execute(args []string) error {
	c := cfg.Get()

	lang, err := newsletter.ParseLanguage(cmd.Language)
	if err != nil {
		return err
	}

	templatePath, err := templates.Resolve(c.TemplateDir, cmd.Template, cmd.Language)
	if err != nil {
		return err
	}
	if err := templates.Validate(templatePath); err != nil {
		return err
	}

	items, err := newsletter.LoadLineItems(cmd.ProductsFile)
	if err != nil {
		return err
	}

	outputDir := c.OutputDir
	if cmd.OutputDir != "" {
		outputDir = cmd.OutputDir
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	generator := newsletter.NewGenerator(
		database.NewProductRepository(db),
		database.NewRunRepository(db),
		pdf.NewRenderer(),
	)

	result, err := generator.Run(newsletter.GenerateParams{
		TemplatePath: templatePath,
		TemplateName: cmd.Template,
		Language:     lang,
		Items:        items,
		ValidityDate: cmd.ValidityDate,
		GeneratePDF:  cmd.PDF,
		OutputDir:    outputDir,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Run ID: %d\n", result.RunID)
	fmt.Printf("HTML: %s\n", result.HTMLPath)
	if result.PDFPath != "" {
		fmt.Printf("PDF: %s\n", result.PDFPath)
	}
	return nil
}

type runsListCmd struct {
	Limit int `long:"limit" default:"20" description:"Max rows to return"`
}

func (cmd *runsListCmd) Execute(args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := database.NewRunRepository(db).ListRuns(cmd.Limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No newsletter runs found")
		return nil
	}

	for _, run := range runs {
		fmt.Printf("id=%d created_at=%s template=%s lang=%s products=%d html=%s\n",
			run.ID, run.CreatedAt.UTC().Format(time.RFC3339), run.TemplateName,
			run.Language, run.ProductsCount, run.HTMLPath)
	}
	return nil
}

type runsShowCmd struct {
	ID int64 `long:"id" required:"true" description:"Run ID"`
}

func (cmd *runsShowCmd) Execute(args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := database.NewRunRepository(db).GetRun(cmd.ID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run not found: %d", cmd.ID)
	}

	payload := map[string]interface{}{
		"id":             run.ID,
		"filename":       run.Filename,
		"template_name":  run.TemplateName,
		"language":       run.Language,
		"validity_date":  run.ValidityDate,
		"products_count": run.ProductsCount,
		"html_path":      run.HTMLPath,
		"pdf_path":       run.PDFPath,
		"output_dir":     run.OutputDir,
		"created_at":     run.CreatedAt.UTC().Format(time.RFC3339),
	}

	var requestedItems []map[string]interface{}
	if err := json.Unmarshal([]byte(run.RequestedItems), &requestedItems); err == nil {
		payload["article_numbers"] = requestedItems
	} else {
		payload["article_numbers"] = run.RequestedItems
	}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

type serveCmd struct{}

func (cmd *serveCmd) Execute(args []string) error {
	c := cfg.Get()

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	handler := api.NewHandler(database.NewProductRepository(db), database.NewRunRepository(db))
	server := api.NewServer(handler, c.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + c.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", c.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}

	slog.Info("HTTP server stopped")
	return nil
}
