// Command fenboard decodes FEN records into bitboards, renders them, stores
// them and serves them over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/hailam/fenboard/internal/board"
	"github.com/hailam/fenboard/internal/config"
	"github.com/hailam/fenboard/internal/logging"
	"github.com/hailam/fenboard/internal/render"
	"github.com/hailam/fenboard/internal/server"
	"github.com/hailam/fenboard/internal/storage"
)

const (
	demoFEN         = "8/8/8/8/8/8/8/8 w - - 0 1" // empty board the default run starts from
	renderCacheSize = 1024                        // PNGs kept by the server
)

type options struct {
	configPath string
	fen        string
	start      bool
	place      string
	pngPath    string
	save       bool
	list       bool
	serve      bool
}

// demo reports whether no position flags were given.
func (o options) demo() bool {
	return o.fen == "" && !o.start && o.place == ""
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("fenboard", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "config file (yaml, json or toml)")
	fs.StringVar(&o.fen, "fen", "", "FEN record to decode")
	fs.BoolVar(&o.start, "start", false, "decode the standard starting position")
	fs.StringVar(&o.place, "place", "", "extra pieces to place, e.g. r@h8,P@e4")
	fs.StringVar(&o.pngPath, "png", "", "write a PNG rendering to this file")
	fs.BoolVar(&o.save, "save", false, "store the decoded position")
	fs.BoolVar(&o.list, "list", false, "list stored positions")
	fs.BoolVar(&o.serve, "serve", false, "run the HTTP server")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.fen != "" && o.start {
		return o, errors.New("-fen and -start are mutually exclusive")
	}
	return o, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	log := logging.Must(cfg.LogLevel)
	defer log.Sync() //nolint:errcheck

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, opts, cfg, log, os.Stdout); err != nil {
		log.Errorw("fenboard failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, cfg *config.Config, log *zap.SugaredLogger, out io.Writer) error {
	if opts.serve {
		return serve(ctx, cfg, log)
	}
	if opts.list {
		return listPositions(cfg, log, out)
	}

	pos, err := decode(opts)
	if err != nil {
		return err
	}

	if err := render.WriteText(out, pos); err != nil {
		return err
	}
	if err := pos.Validate(); err != nil {
		log.Warnw("inconsistent position", zap.Error(err))
	}
	if opts.demo() {
		fmt.Fprintf(out, "%b\n", uint64(pos.Bitboard(board.BlackRook)))
	}

	if opts.pngPath != "" {
		if err := writePNG(cfg, pos, opts.pngPath); err != nil {
			return err
		}
		log.Infow("wrote image", "path", opts.pngPath)
	}
	if opts.save {
		return savePosition(cfg, log, pos, out)
	}
	return nil
}

// decode builds the position the flags describe. With no position flags it
// is the demonstration: an empty board with a black rook on h8.
func decode(opts options) (board.Position, error) {
	fen := demoFEN
	switch {
	case opts.fen != "":
		fen = opts.fen
	case opts.start:
		fen = board.StartFEN
	}

	pos, err := board.ParseFEN(fen)
	if err != nil {
		return board.Position{}, err
	}

	items, err := parsePlacements(opts.place)
	if err != nil {
		return board.Position{}, err
	}
	if opts.demo() {
		items = []placement{{piece: board.BlackRook, coord: board.NewCoord(7, 7)}}
	}
	applyPlacements(&pos, items)
	return pos, nil
}

func writePNG(cfg *config.Config, pos board.Position, path string) error {
	imgOpts, err := cfg.ImageOptions()
	if err != nil {
		return err
	}
	renderer, err := render.NewImageRenderer(imgOpts)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := renderer.WritePNG(f, pos); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func openStorage(cfg *config.Config, log *zap.SugaredLogger) (*storage.Storage, error) {
	dir, err := storage.DatabaseDir(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	return storage.Open(dir, log)
}

func savePosition(cfg *config.Config, log *zap.SugaredLogger, pos board.Position, out io.Writer) error {
	store, err := openStorage(cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, created, err := store.Save(pos)
	if err != nil {
		return err
	}
	state := "existing"
	if created {
		state = "stored"
	}
	fmt.Fprintf(out, "%s %s %016x\n", state, rec.ID, rec.Hash)
	return nil
}

func listPositions(cfg *config.Config, log *zap.SugaredLogger, out io.Writer) error {
	store, err := openStorage(cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	recs, err := store.List()
	if err != nil {
		return err
	}
	for _, rec := range recs {
		fmt.Fprintf(out, "%s  %016x  %s\n", rec.ID, rec.Hash, rec.FEN)
	}
	return nil
}

func serve(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) error {
	store, err := openStorage(cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	imgOpts, err := cfg.ImageOptions()
	if err != nil {
		return err
	}
	renderer, err := render.NewImageRenderer(imgOpts)
	if err != nil {
		return err
	}

	cached := render.NewCachedRenderer(renderer, renderCacheSize)
	return server.New(log, store, cached).ListenAndServe(ctx, cfg.ListenAddr)
}
