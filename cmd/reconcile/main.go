// Command reconcile is a demonstration CLI over the reconcile package: it
// applies a single proposed-text edit to a WordprocessingML paragraph
// fragment and prints the redlined result, or, with --docx, performs the
// same reconciliation against one paragraph inside a real .docx package
// and writes an updated copy alongside it.
//
// Grounded on magicschema's cobra texture (stdin via "-", RunE returning a
// wrapped error, flags bound through a config object) from the example
// pack, since the teacher repo has no cobra command of its own.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/log/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/falcomza/reconcile"
	"github.com/falcomza/reconcile/internal/docxio"
	"github.com/falcomza/reconcile/internal/ingest"
	"github.com/falcomza/reconcile/internal/numbering"
	"github.com/falcomza/reconcile/internal/xmladapter"
)

type config struct {
	author      string
	optionsPath string
	docxPath    string
	outputPath  string
}

func (c *config) registerFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.author, "author", "Reviewer", "author attributed to inserted, deleted, and comment markers")
	flags.StringVar(&c.optionsPath, "config", "", "path to a YAML options file (see reconcile.FileOptions)")
	flags.StringVar(&c.docxPath, "docx", "", "path to a .docx package to reconcile into a new copy (end-to-end mode)")
	flags.StringVar(&c.outputPath, "out", "", "output path for --docx mode (defaults to <docx>.reconciled.docx)")
}

func main() {
	cfg := &config{}

	rootCmd := &cobra.Command{
		Use:   "reconcile [flags] <original-fragment> <proposed-text>",
		Short: "Reconcile a proposed text edit into tracked-change WordprocessingML",
		Long: `reconcile applies a proposed plain-text or Markdown edit to an existing
WordprocessingML paragraph, emitting w:ins/w:del tracked changes, run-property
changes, or a freshly generated list/table fragment as the edit calls for.

Each positional argument may be "-" to read from stdin, but at most one may
be, since both cannot read from the same stream.`,
		Args:          cobra.ExactArgs(2),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(cfg, args)
		},
	}

	cfg.registerFlags(rootCmd.Flags())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config, args []string) error {
	ctx := reconcile.NewContext(cfg.author)
	logger := log.New(os.Stderr)
	ctx.Logger = logger
	ctx.Yield = func(runs, chars int) {
		logger.Debug("yield checkpoint reached", "runs", runs, "chars", chars)
	}

	opts := reconcile.NewRedlineOptions(cfg.author)
	if cfg.optionsPath != "" {
		data, err := os.ReadFile(cfg.optionsPath)
		if err != nil {
			return fmt.Errorf("read options file: %w", err)
		}
		fo, err := reconcile.LoadOptionsYAML(data)
		if err != nil {
			return err
		}
		fo.ApplyTo(ctx)
		opts = fo.RedlineOptions()
	}

	if cfg.docxPath != "" {
		return runDocx(ctx, cfg, opts, args)
	}

	original, err := readArg(args[0])
	if err != nil {
		return fmt.Errorf("read original fragment: %w", err)
	}
	proposed, err := readArg(args[1])
	if err != nil {
		return fmt.Errorf("read proposed text: %w", err)
	}

	oldText, err := plainText(original)
	if err != nil {
		return fmt.Errorf("read original fragment: %w", err)
	}

	result, err := reconcile.ApplyRedlineToParagraphFragment(ctx, original, oldText, proposed, opts)
	if err != nil {
		return err
	}

	fmt.Println(result.WML)
	if len(result.Warnings) > 0 {
		for _, w := range result.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
	}
	return nil
}

// runDocx performs the same reconciliation as the default mode, but against
// word/document.xml extracted from a real .docx package: args[0] selects
// the target paragraph by its current (fuzzy-matched) text and args[1] is
// the proposed replacement text, each readable the same way as default mode
// (a file path, or "-" for stdin).
func runDocx(ctx *reconcile.Context, cfg *config, opts reconcile.RedlineOptions, args []string) error {
	parts, err := docxio.Read(cfg.docxPath)
	if err != nil {
		return err
	}

	ctx.WithNumberingFromPart(string(parts.NumberingXML), 0)

	targetText, err := readArg(args[0])
	if err != nil {
		return fmt.Errorf("read target selector: %w", err)
	}
	proposed, err := readArg(args[1])
	if err != nil {
		return fmt.Errorf("read proposed text: %w", err)
	}

	ref := reconcile.TargetRef{TargetText: targetText}
	resolved, err := reconcile.ResolveTargetParagraph(ctx, string(parts.DocumentXML), ref)
	if err != nil {
		return err
	}

	ctx.Logger.Debug("resolved target paragraph",
		"index", resolved.ParagraphIndex, "resolvedBy", resolved.ResolvedBy, "drift", resolved.DriftDetected)

	originalParagraphWML := xmladapter.Serialize(resolved.ParagraphNode)
	oldText, err := plainText(originalParagraphWML)
	if err != nil {
		return fmt.Errorf("read resolved paragraph: %w", err)
	}

	result, err := reconcile.ApplyRedlineToParagraphFragment(ctx, originalParagraphWML, oldText, proposed, opts)
	if err != nil {
		return err
	}

	resultWML, err := mergeNewNumbering(ctx, parts, result.WML)
	if err != nil {
		return fmt.Errorf("merge numbering part: %w", err)
	}

	document := string(parts.DocumentXML)
	if !strings.Contains(document, originalParagraphWML) {
		return fmt.Errorf("resolved paragraph text no longer matches word/document.xml verbatim; re-run without --docx to inspect the fragment")
	}
	parts.DocumentXML = []byte(strings.Replace(document, originalParagraphWML, resultWML, 1))

	outPath := cfg.outputPath
	if outPath == "" {
		outPath = cfg.docxPath + ".reconciled.docx"
	}
	if err := docxio.Write(cfg.docxPath, outPath, parts); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", outPath)
	return nil
}

// mergeNewNumbering folds any numbering definitions the reconciliation call
// interned into ctx's Numbering Service (via the list route's ObtainForStyle)
// into parts.NumberingXML, updating parts.ContentTypesXML and
// parts.RelationshipsXML to declare the part when it didn't exist before, and
// returns paragraphWML with its w:numId references rewritten to whatever ids
// the merge actually assigned — which can differ from what the call itself
// emitted, since ctx's Service was seeded from the document's own numbering
// part and a collision is only possible across separately-seeded services.
func mergeNewNumbering(ctx *reconcile.Context, parts *docxio.Parts, paragraphWML string) (string, error) {
	added := ctx.Numbering().EmitPart()
	if len(added.Children) == 0 {
		return paragraphWML, nil
	}

	dest := reconcile.PartSet{}
	if len(parts.NumberingXML) > 0 {
		existing, err := xmladapter.Parse(string(parts.NumberingXML))
		if err != nil {
			return "", fmt.Errorf("parse word/numbering.xml: %w", err)
		}
		dest.Numbering = existing
	}
	if len(parts.ContentTypesXML) > 0 {
		ct, err := xmladapter.Parse(string(parts.ContentTypesXML))
		if err != nil {
			return "", fmt.Errorf("parse [Content_Types].xml: %w", err)
		}
		dest.ContentTypes = ct
	}
	if len(parts.RelationshipsXML) > 0 {
		rels, err := xmladapter.Parse(string(parts.RelationshipsXML))
		if err != nil {
			return "", fmt.Errorf("parse word/_rels/document.xml.rels: %w", err)
		}
		dest.Relationships = rels
	}

	merged, directives, err := reconcile.MergeSiblingParts(dest, reconcile.PartSet{Numbering: added})
	if err != nil {
		return "", err
	}

	for _, d := range directives {
		if d.NumberingRemap == nil {
			continue
		}
		node, err := xmladapter.Parse(paragraphWML)
		if err != nil {
			return "", fmt.Errorf("parse redlined paragraph: %w", err)
		}
		remapped := numbering.RemapPayload([]*xmladapter.Node{node}, d.NumberingRemap)
		paragraphWML = xmladapter.Serialize(remapped[0])
	}

	parts.NumberingXML = []byte(xmladapter.Serialize(merged.Numbering))
	if merged.ContentTypes != nil {
		parts.ContentTypesXML = []byte(xmladapter.Serialize(merged.ContentTypes))
	}
	if merged.Relationships != nil {
		parts.RelationshipsXML = []byte(xmladapter.Serialize(merged.Relationships))
	}
	return paragraphWML, nil
}

// plainText extracts the accepted (non-deleted) text run content of a
// <w:p> fragment, which the Route Planner and word-diff engine operate on
// rather than the raw markup.
func plainText(wml string) (string, error) {
	node, err := xmladapter.Parse(wml)
	if err != nil {
		return "", err
	}
	result, err := ingest.Ingest(node)
	if err != nil {
		return "", err
	}
	return result.AcceptedText, nil
}

func readArg(arg string) (string, error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(arg)
	return string(data), err
}
