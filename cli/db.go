package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"blogreader/app/config"
	"blogreader/app/repositories"
)

// handleDB handles database subcommands
func (r *Runner) handleDB(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return usagef("db requires init, clean, backup or restore")
	}

	dbPath := cfg.DBPath
	switch args[0] {
	case "init":
		return r.initDB(dbPath, cfg.CurrentUserID)
	case "clean":
		return r.cleanDB(dbPath)
	case "backup":
		backupFile := ""
		if len(args) > 1 {
			backupFile = args[1]
		}
		return r.backupDB(dbPath, backupFile, cfg.CurrentUserID)
	case "restore":
		if len(args) < 2 {
			return usagef("backup file path required for restore")
		}
		return r.restoreDB(dbPath, args[1], cfg.CurrentUserID)
	default:
		return usagef("unknown db command: %s", args[0])
	}
}

func (r *Runner) confirm(prompt string) bool {
	fmt.Fprintf(r.Out, "%s [y/N] ", prompt)
	var response string
	if r.In != nil {
		fmt.Fscanln(r.In, &response)
	}
	return response == "y" || response == "Y"
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// initDB initializes a new empty database
func (r *Runner) initDB(dbPath string, currentUserID int64) error {
	if exists(dbPath) {
		fmt.Fprintln(r.Out, "Database already exists. Use 'clean' first if you want to reinitialize.")
		return nil
	}
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	repo, err := repositories.NewRepository(dbPath, currentUserID)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := repo.Close(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	fmt.Fprintln(r.Out, "Database initialized successfully")
	return nil
}

// cleanDB removes the database
func (r *Runner) cleanDB(dbPath string) error {
	if !exists(dbPath) {
		fmt.Fprintln(r.Out, "Database is already clean (does not exist)")
		return nil
	}
	if !r.confirm("Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Fprintln(r.Out, "Operation cancelled")
		return nil
	}
	if err := os.RemoveAll(dbPath); err != nil {
		return fmt.Errorf("failed to clean database: %w", err)
	}
	fmt.Fprintln(r.Out, "Database cleaned successfully")
	return nil
}

// backupDB writes a full backup, by default under data/backups
func (r *Runner) backupDB(dbPath, backupFile string, currentUserID int64) error {
	if !exists(dbPath) {
		fmt.Fprintln(r.Out, "No database exists to backup")
		return nil
	}
	if backupFile == "" {
		backupFile = filepath.Join("data", "backups", fmt.Sprintf("backup_%d.db", time.Now().Unix()))
	}
	if err := os.MkdirAll(filepath.Dir(backupFile), 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	repo, err := repositories.NewRepository(dbPath, currentUserID)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repo.Close()

	f, err := os.Create(backupFile)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer f.Close()

	if err := repo.Backup(f); err != nil {
		return fmt.Errorf("failed to backup database: %w", err)
	}
	fmt.Fprintf(r.Out, "Database backed up successfully to %s\n", backupFile)
	return nil
}

// restoreDB replaces the database with the contents of a backup
func (r *Runner) restoreDB(dbPath, backupFile string, currentUserID int64) error {
	if !exists(backupFile) {
		return fmt.Errorf("backup file does not exist: %s", backupFile)
	}

	if exists(dbPath) {
		if !r.confirm("Existing database found. Do you want to replace it?") {
			fmt.Fprintln(r.Out, "Operation cancelled")
			return nil
		}
		if err := os.RemoveAll(dbPath); err != nil {
			return fmt.Errorf("failed to remove existing database: %w", err)
		}
	}
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	repo, err := repositories.NewRepository(dbPath, currentUserID)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	f, err := os.Open(backupFile)
	if err != nil {
		repo.Close()
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer f.Close()

	err = repo.Restore(f)
	if closeErr := repo.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to restore database: %w", err)
	}

	fmt.Fprintln(r.Out, "Database restored successfully")
	return nil
}
