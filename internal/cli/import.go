package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/engramd/engram/internal/app"
	"github.com/engramd/engram/internal/config"
	"github.com/engramd/engram/internal/domain"
)

func init() {
	importCmd.AddCommand(importDocCmd)
	rootCmd.AddCommand(importCmd)

	importDocCmd.Flags().String("title", "", "document title (defaults to the file name)")
	importDocCmd.Flags().Int("priority", 0, "priority rating 0-4 (0 = unset)")
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Register external content for later ingestion",
}

var importDocCmd = &cobra.Command{
	Use:   "doc PATH",
	Short: "Register a document row and queue it for ingestion",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportDoc,
}

func runImportDoc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	title, _ := cmd.Flags().GetString("title")
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	priority, _ := cmd.Flags().GetInt("priority")

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	engine, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("start engine: %w", err)
	}
	defer engine.Close()

	doc := &domain.Document{
		ID:             uuid.NewString(),
		Title:          title,
		FilePath:       path,
		FileType:       fileTypeFromExt(path),
		PriorityRating: priority,
	}

	pending, err := engine.RegisterDocument(ctx, doc)
	if err != nil {
		return fmt.Errorf("register document: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Registered %q as %s, queued for ingestion from %s\n", title, doc.ID, pending.FilePath)
	return nil
}

func fileTypeFromExt(path string) domain.FileType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return domain.FilePDF
	case ".epub":
		return domain.FileEPUB
	case ".html", ".htm":
		return domain.FileHTML
	case ".md", ".markdown":
		return domain.FileMarkdown
	case ".mp4", ".mkv", ".webm":
		return domain.FileVideo
	default:
		return domain.FileText
	}
}
