package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/booklab/tocsplit/internal/booktree"
	"github.com/booklab/tocsplit/internal/outline"
	"github.com/booklab/tocsplit/internal/segment"
	"github.com/booklab/tocsplit/internal/source"
	"github.com/booklab/tocsplit/internal/splitter"
)

var (
	outlinePath  string
	startPage    int
	marker       string
	bookTitle    string
	outPath      string
	segmentsPath string
)

var splitCmd = &cobra.Command{
	Use:   "split <file>",
	Short: "Split one document and write its structure tree as JSON",
	Long: `Split loads a document (docx, pdf, md, html or txt), builds the chapter
skeleton from its outline, and writes a JSON tree where each node holds
the text found between its heading and the next.

The outline comes from the document itself (docx/markdown/html headings,
pdf bookmarks) or from a sidecar file given with --outline.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSplit(cmd, args[0])
	},
}

func init() {
	splitCmd.Flags().StringVar(&outlinePath, "outline", "", "Sidecar outline file (.csv or .json) replacing the document's own")
	splitCmd.Flags().IntVar(&startPage, "start-page", 1, "First body page; earlier pages are skipped")
	splitCmd.Flags().StringVar(&marker, "marker", booktree.DefaultChapterMarker, "Chapter marker word in headings")
	splitCmd.Flags().StringVar(&bookTitle, "title", "", "Book title (defaults to the document's own)")
	splitCmd.Flags().StringVarP(&outPath, "out", "o", "output_structure.json", "Output path for the structure tree")
	splitCmd.Flags().StringVar(&segmentsPath, "segments", "", "Also export reader segments to this file")

	rootCmd.AddCommand(splitCmd)
}

func runSplit(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	src, err := source.ForFile(path)
	if err != nil {
		return err
	}
	if pdfSrc, ok := src.(*source.PDFSource); ok {
		pdfSrc.FallbackPdftotext = true
	}

	doc, err := src.Load(bytes.NewReader(data), filepath.Base(path))
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	title := doc.Title
	if bookTitle != "" {
		title = bookTitle
	}

	entries := doc.Outline
	if outlinePath != "" {
		raw, err := os.ReadFile(outlinePath)
		if err != nil {
			return err
		}
		entries, err = source.ParseOutline(bytes.NewReader(raw), outlinePath)
		if err != nil {
			return fmt.Errorf("outline %s: %w", outlinePath, err)
		}
	}
	if len(entries) == 0 {
		return fmt.Errorf("%s carries no outline; supply one with --outline", path)
	}

	book, buildWarnings := outline.NewBuilder(marker).Build(entries)
	chapters, sections, subsections := book.Counts()
	if chapters == 0 {
		return fmt.Errorf("outline produced no chapters (marker %q, %d entries)", marker, len(entries))
	}

	text := splitter.Assemble(doc.Pages, startPage)
	stats, splitWarnings := splitter.New(marker).Split(book, text)

	out, err := json.MarshalIndent(book, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return err
	}

	segmentCount := -1
	if segmentsPath != "" {
		cfg := segment.DefaultConfig()
		cfg.Marker = marker
		segs := segment.FromBook(book, cfg)
		segOut, err := json.MarshalIndent(segs, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(segmentsPath, segOut, 0o644); err != nil {
			return err
		}
		segmentCount = len(segs)
	}

	warnings := make([]string, 0, len(buildWarnings)+len(splitWarnings))
	for _, w := range buildWarnings {
		warnings = append(warnings, w.String())
	}
	for _, w := range splitWarnings {
		warnings = append(warnings, w.String())
	}

	renderReport(cmd.OutOrStdout(), splitReport{
		title:        title,
		out:          outPath,
		segmentsOut:  segmentsPath,
		chapters:     chapters,
		sections:     sections,
		subsections:  subsections,
		searched:     stats.Searched,
		matched:      stats.Matched,
		segmentCount: segmentCount,
		warnings:     warnings,
	})
	return nil
}
