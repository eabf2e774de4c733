package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dottorrent/dottorrent/cmd/dottorrent/bencode"
	"github.com/dottorrent/dottorrent/cmd/dottorrent/magnet"
	"github.com/dottorrent/dottorrent/cmd/dottorrent/torrent"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func init() {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logger, err := config.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
}

func main() {
	logger := zap.L()

	if len(os.Args) < 2 {
		logger.Error("Usage: dottorrent <decode|info|pieces|magnet|magnet_parse> [args...]")
		os.Exit(1)
	}
	command := os.Args[1]

	switch command {
	case "decode":
		if err := handleDecode(os.Args); err != nil {
			logger.Error("Failed to decode", zap.Error(err))
			os.Exit(1)
		}
	case "info":
		if err := handleInfo(os.Args); err != nil {
			logger.Error("Failed to get info", zap.Errors("failures", multierr.Errors(err)))
			os.Exit(1)
		}
	case "pieces":
		if err := handlePieces(os.Args); err != nil {
			logger.Error("Failed to list pieces", zap.Error(err))
			os.Exit(1)
		}
	case "magnet":
		if err := handleMagnet(os.Args); err != nil {
			logger.Error("Failed to build magnet link", zap.Error(err))
			os.Exit(1)
		}
	case "magnet_parse":
		if err := handleMagnetParse(os.Args); err != nil {
			logger.Error("Failed to parse magnet link", zap.Error(err))
			os.Exit(1)
		}
	default:
		logger.Error("Unknown command", zap.String("command", command))
		os.Exit(1)
	}
}

// Command handlers

func handleDecode(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: decode <bencoded-value>")
	}

	decoded, err := bencode.Decode([]byte(args[2]))
	if err != nil {
		return err
	}
	jsonOutput, err := json.Marshal(decoded.Interface())
	if err != nil {
		return err
	}
	fmt.Println(string(jsonOutput))
	return nil
}

// handleInfo prints one block per torrent file. A file that cannot be read
// or parsed is logged and skipped; the failures are returned together.
func handleInfo(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: info <torrent-file>...")
	}

	var errs error
	for _, path := range args[2:] {
		if err := printInfo(os.Stdout, path); err != nil {
			zap.L().Error("Failed to process torrent", zap.String("path", path), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}
	return errs
}

func printInfo(w io.Writer, path string) error {
	fmt.Fprintf(w, "File: %s\n", path)

	t, err := loadTorrent(path)
	if err != nil {
		return err
	}

	values, err := newReport(path, t).flatten()
	if err != nil {
		return err
	}

	renderReport(w, values)
	zap.L().Debug("Parsed torrent", reportFields(values)...)
	return nil
}

func handlePieces(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: pieces <torrent-file>")
	}

	t, err := loadTorrent(args[2])
	if err != nil {
		return err
	}

	fmt.Printf("Piece Length: %d\n", t.Info.PieceLength)
	fmt.Println("Piece Hashes:")
	for _, hash := range t.PieceHashes() {
		fmt.Printf("%x\n", hash)
	}
	return nil
}

func handleMagnet(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: magnet <torrent-file>")
	}

	t, err := loadTorrent(args[2])
	if err != nil {
		return err
	}

	fmt.Println(magnet.FromTorrent(t).String())
	return nil
}

func handleMagnetParse(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: magnet_parse <magnet-link>")
	}

	link, err := magnet.Parse(args[2])
	if err != nil {
		return fmt.Errorf("failed to parse magnet link: %w", err)
	}

	fmt.Printf("Info Hash: %s\n", link.InfoHash)
	if link.Name != "" {
		fmt.Printf("Name: %s\n", link.Name)
	}
	for _, tr := range link.Trackers {
		fmt.Printf("Tracker URL: %s\n", tr)
	}
	return nil
}

// loadTorrent keeps unknown info keys so the printed hashes match the
// info-hash other clients compute for the same file.
func loadTorrent(path string) (*torrent.Torrent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read torrent file: %w", err)
	}

	t, err := torrent.Parse(data, torrent.KeepUnknownKeys())
	if err != nil {
		return nil, fmt.Errorf("failed to parse torrent file: %w", err)
	}
	return t, nil
}
