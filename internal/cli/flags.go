package cli

import (
	"flag"
	"io"

	"github.com/eshaffer321/concilia/internal/application/reconcile"
	"github.com/eshaffer321/concilia/internal/infrastructure/config"
)

// ReconcileFlags are the flags of the reconcile command
type ReconcileFlags struct {
	BankFile   string
	TrackerDir string
	OutputDir  string
	ConfigPath string
	Password   string
	Debug      bool
	Workers    int
}

// ParseReconcileFlags parses reconcile flags from args (without the program name)
func ParseReconcileFlags(args []string, output io.Writer) (*ReconcileFlags, error) {
	var flags ReconcileFlags
	fs := flag.NewFlagSet("concilia", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&flags.BankFile, "bank", "", "Bank statement (PDF, XLSX, XLS or CSV)")
	fs.StringVar(&flags.TrackerDir, "tracker-dir", "", "Directory holding one tracker statement per card")
	fs.StringVar(&flags.OutputDir, "out", "", "Directory for difference reports")
	fs.StringVar(&flags.ConfigPath, "config", "config.yaml", "Configuration file path")
	fs.StringVar(&flags.Password, "password", "", "Password for encrypted statements")
	fs.BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	fs.IntVar(&flags.Workers, "workers", 0, "Accounts reconciled in parallel (0 = config)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return &flags, nil
}

// Apply overrides config values with the flags that were set
func (f *ReconcileFlags) Apply(cfg *config.Config) {
	if f.BankFile != "" {
		cfg.Input.BankStatement = f.BankFile
	}
	if f.TrackerDir != "" {
		cfg.Input.TrackerDir = f.TrackerDir
	}
	if f.OutputDir != "" {
		cfg.Output.Dir = f.OutputDir
	}
	if f.Workers > 0 {
		cfg.Matching.Workers = f.Workers
	}
	if f.Debug {
		cfg.Observability.Logging.Level = "debug"
	}
}

// ToRequest builds a reconcile request from cfg and an already resolved password
func ToRequest(cfg *config.Config, password string) reconcile.Request {
	return reconcile.Request{
		BankFile:   cfg.Input.BankStatement,
		TrackerDir: cfg.Input.TrackerDir,
		OutputDir:  cfg.Output.Dir,
		Password:   password,
		Workers:    cfg.Matching.Workers,
	}
}
