package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/metcalfc/jrr/internal/chunk"
	"github.com/metcalfc/jrr/internal/config"
	"github.com/metcalfc/jrr/internal/logger"
	"github.com/metcalfc/jrr/internal/reader"
	"github.com/metcalfc/jrr/internal/segment"
	"github.com/metcalfc/jrr/internal/source"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	errNoInput = errors.New("no input provided, give a file or pipe text to stdin")
	errNoText  = errors.New("no text to read")
)

var (
	cfgFile string
	asJSON  bool
)

// session is everything a renderer needs to run.
type session struct {
	reader *reader.Reader
	doc    source.Document
	cfg    config.Config
	log    *zap.Logger
}

func (s *session) close() {
	_ = s.log.Sync()
}

// rootCmd reads a file or stdin and plays it back.
var rootCmd = &cobra.Command{
	Use:   "jrr [file]",
	Short: "jrr - Japanese speed reading tool",
	Long: `jrr shows Japanese text a few characters at a time at a fixed rate
(Rapid Serial Visual Presentation). Text is segmented into words, grouped
into readable chunks and played back in chunks per minute.

Supported inputs: ` + strings.Join(source.SupportedFormats(), ", ") + `, and plain text.`,
	Example: `  jrr 銀河鉄道の夜.txt           Read a file at 300 chunks per minute
  jrr -r 500 book.epub          Read an EPUB at 500 chunks per minute
  jrr -m atomic notes.md        One word per chunk
  jrr -t カムパネルラ book.txt   Never split a name
  cat file.txt | jrr            Read from stdin`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, args)
		if err != nil {
			return err
		}
		defer s.close()
		return runReader(s)
	},
}

// chunksCmd prints the chunk sequence without playing it.
var chunksCmd = &cobra.Command{
	Use:   "chunks [file]",
	Short: "Print the chunk sequence for a file or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, args)
		if err != nil {
			return err
		}
		defer s.close()
		return writeChunks(cmd.OutOrStdout(), s.reader.Chunks(), asJSON)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration",
	Long: `Write the default configuration as YAML. Without a path the file is
written to ` + "`$XDG_CONFIG_HOME/jrr/config.yaml`" + `. An existing file is never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultPath()
		if len(args) > 0 {
			path = args[0]
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), versionString())
	},
}

func init() {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionString() + "\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/jrr/config.yaml)")
	config.AddFlags(rootCmd.PersistentFlags())

	chunksCmd.Flags().BoolVar(&asJSON, "json", false, "print chunks as JSON with byte offsets")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(chunksCmd, configCmd, versionCmd)
}

func versionString() string {
	return fmt.Sprintf("jrr %s (commit: %s, built: %s)", version, commit, date)
}

// openSession loads configuration, input and logger and builds the reader.
func openSession(cmd *cobra.Command, args []string) (*session, error) {
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	problems := cfg.Normalize()

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	for _, p := range problems {
		log.Warn("configuration clamped", zap.Error(p))
	}

	doc, err := readInput(args, os.Stdin, stdinPiped())
	if err != nil {
		return nil, err
	}

	r := reader.New(doc.Text,
		reader.WithLogger(log),
		reader.WithSegmenter(newSegmenter(cfg.Segmenter, log)),
		reader.WithGrouping(cfg.GroupingConfig()),
		reader.WithRate(cfg.Rate),
		reader.WithProtectedTerms(cfg.ProtectedTerms),
	)
	log.Info("session opened",
		zap.Strings("args", args),
		zap.String("segmenter", r.SegmenterName()),
		zap.Int("chunks", len(r.Chunks())),
		zap.Int("sections", len(doc.Sections)))

	return &session{reader: r, doc: doc, cfg: cfg, log: log}, nil
}

// newSegmenter returns the named segmenter, or the script segmenter if it
// cannot be created.
func newSegmenter(name string, log *zap.Logger) segment.Segmenter {
	seg, err := segment.New(name)
	if err != nil {
		log.Warn("segmenter unavailable, using script segmenter",
			zap.String("segmenter", name), zap.Error(err))
		return segment.Script{}
	}
	return seg
}

func stdinPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}

// readInput extracts the document named by args, or reads stdin when no
// file is given and stdin is not a terminal.
func readInput(args []string, stdin io.Reader, piped bool) (source.Document, error) {
	var doc source.Document
	if len(args) > 0 {
		var err error
		doc, err = source.Extract(args[0])
		if err != nil {
			return source.Document{}, fmt.Errorf("failed to read file '%s': %w", args[0], err)
		}
	} else {
		if !piped {
			return source.Document{}, errNoInput
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return source.Document{}, fmt.Errorf("failed to read stdin: %w", err)
		}
		doc.Text = string(data)
	}

	if strings.TrimSpace(doc.Text) == "" {
		return source.Document{}, errNoText
	}
	return doc, nil
}

type chunkRecord struct {
	Index int `json:"index"`
	chunk.Chunk
}

// writeChunks prints one surface per line, or a JSON array of chunks.
func writeChunks(w io.Writer, chunks []chunk.Chunk, asJSON bool) error {
	if asJSON {
		records := make([]chunkRecord, len(chunks))
		for i, c := range chunks {
			records[i] = chunkRecord{Index: i, Chunk: c}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	for _, c := range chunks {
		if _, err := fmt.Fprintln(w, c.Surface); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
