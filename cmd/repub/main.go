package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaiseiYokoyama/repub/internal/builder"
	"github.com/KaiseiYokoyama/repub/internal/epub"
)

var rootCmd = &cobra.Command{
	Use:   "repub <input>",
	Short: "Convert Markdown documents into an EPUB 3 e-book",
	Long: `repub converts a Markdown file, or a directory of Markdown files,
into a single EPUB 3 e-book with a table of contents derived from the
document headings.

Title, creator and language are prompted for interactively when not
given on the command line.`,
	Args: cobra.ExactArgs(1),
	RunE: run,
}

func init() {
	rootCmd.Flags().StringP("title", "t", "", "Book title")
	rootCmd.Flags().StringP("creator", "c", "", "Author, editor, translator, ...")
	rootCmd.Flags().StringP("language", "l", "", "Book language")
	rootCmd.Flags().String("bookid", "", "Book identifier (default: generated)")
	rootCmd.Flags().BoolP("vertical", "v", false, "Vertical writing, right-to-left page progression")
	rootCmd.Flags().StringP("css", "s", "", "Custom stylesheet copied into the book")
	rootCmd.Flags().Int("toc-level", epub.DefaultTOCDepth, "Expansion depth of the table of contents")
	rootCmd.Flags().BoolP("keep", "k", false, "Keep the intermediate files instead of deleting them")
	rootCmd.Flags().Bool("system-zip", false, "Pack with the zip(1) command instead of the built-in archiver")
}

func run(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	in := bufio.NewReader(cmd.InOrStdin())

	title, _ := flags.GetString("title")
	if title == "" {
		var err error
		if title, err = prompt(cmd.OutOrStdout(), in, "Title"); err != nil {
			return err
		}
	}
	creator, _ := flags.GetString("creator")
	if creator == "" {
		var err error
		if creator, err = prompt(cmd.OutOrStdout(), in, "Creator"); err != nil {
			return err
		}
	}
	language, _ := flags.GetString("language")
	if language == "" {
		var err error
		if language, err = prompt(cmd.OutOrStdout(), in, "Language"); err != nil {
			return err
		}
	}

	bookID, _ := flags.GetString("bookid")
	if bookID == "" {
		bookID = epub.NewBookID()
	}

	tocDepth, _ := flags.GetInt("toc-level")
	if tocDepth < 1 {
		log.Printf("warning: invalid toc-level %d, using default %d", tocDepth, epub.DefaultTOCDepth)
		tocDepth = epub.DefaultTOCDepth
	}

	vertical, _ := flags.GetBool("vertical")
	stylePath, _ := flags.GetString("css")
	keep, _ := flags.GetBool("keep")
	systemZip, _ := flags.GetBool("system-zip")

	opts := builder.Options{
		Input: args[0],
		Metadata: epub.Metadata{
			Title:    title,
			Creator:  creator,
			Language: language,
			ID:       bookID,
		},
		Vertical:  vertical,
		StylePath: stylePath,
		TOCDepth:  tocDepth,
		KeepTree:  keep,
	}
	if systemZip {
		opts.Packer = builder.CommandPacker{}
	}

	b := builder.New(opts)
	if err := b.Build(); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", b.EpubPath())
	return nil
}

// prompt reads one required value from standard input.
func prompt(out io.Writer, in *bufio.Reader, label string) (string, error) {
	fmt.Fprintf(out, "%s: ", label)
	line, err := in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(line), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
