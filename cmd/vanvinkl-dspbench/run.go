package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/primordium/fault"

	dsp "github.com/Bojan20/vanvinkl-dsp"
	"github.com/Bojan20/vanvinkl-dsp/internal/pcm"
)

var errInvalidArgCount = errors.New("expected exactly one argument: file path or \"-\" for stdin")

var errInvalidBitDepth = errors.New("must be 16, 24, or 32")

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Feed a raw PCM stream through the DSP chain and report its meters",
		ArgsUsage: "<file | ->",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "sample-rate",
				Aliases:  []string{"s"},
				Usage:    "Sample rate in Hz (e.g., 44100, 48000, 96000)",
				Required: true,
			},
			&cli.IntFlag{
				Name:    "bit-depth",
				Aliases: []string{"b"},
				Usage:   "Bit depth (16, 24, or 32)",
				Value:   32,
			},
			&cli.IntFlag{
				Name:    "channels",
				Aliases: []string{"c"},
				Usage:   "Number of channels (1 = mono, 2 = stereo)",
				Value:   2,
			},
			&cli.IntFlag{
				Name:  "block-size",
				Usage: "Frames processed per block",
				Value: 512,
			},
			&cli.StringFlag{
				Name:  "reverb-mix",
				Usage: "Wet/dry reverb send, 0 to 1",
				Value: "0",
			},
			&cli.StringFlag{
				Name:  "compressor-threshold",
				Usage: "Compressor threshold in dBFS",
				Value: "-200",
			},
			&cli.StringFlag{
				Name:  "compressor-ratio",
				Usage: "Compressor ratio, N:1",
				Value: "1",
			},
			&cli.StringFlag{
				Name:  "limiter-threshold",
				Usage: "Limiter ceiling in dBFS",
				Value: "0",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Suppress the per-block summary, print only the final report",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errInvalidArgCount, cmd.NArg())
			}

			bitDepth, err := toBitDepth(cmd.Int("bit-depth"))
			if err != nil {
				return fmt.Errorf("--bit-depth: %w", err)
			}

			format := pcm.Format{
				SampleRate: cmd.Int("sample-rate"),
				Channels:   cmd.Int("channels"),
				BitDepth:   bitDepth,
			}

			reader, cleanup, err := openInput(cmd.Args().First())
			if err != nil {
				return err
			}
			defer cleanup()

			processor, err := dsp.New(float64(format.SampleRate), cmd.Int("block-size"))
			if err != nil {
				return fmt.Errorf("constructing processor: %w", err)
			}

			reverbMix, err := parseFloatFlag(cmd, "reverb-mix")
			if err != nil {
				return err
			}

			compressorThreshold, err := parseFloatFlag(cmd, "compressor-threshold")
			if err != nil {
				return err
			}

			compressorRatio, err := parseFloatFlag(cmd, "compressor-ratio")
			if err != nil {
				return err
			}

			limiterThreshold, err := parseFloatFlag(cmd, "limiter-threshold")
			if err != nil {
				return err
			}

			processor.SetReverbMix(reverbMix)
			processor.SetCompressorThreshold(compressorThreshold)
			processor.SetCompressorRatio(compressorRatio)
			processor.SetLimiterThreshold(limiterThreshold)

			return runBlocks(reader, format, cmd.Int("block-size"), processor, cmd.Bool("quiet"))
		},
	}
}

func parseFloatFlag(cmd *cli.Command, name string) (float64, error) {
	v, err := strconv.ParseFloat(cmd.String(name), 64)
	if err != nil {
		return 0, fmt.Errorf("--%s: %w", name, err)
	}

	return v, nil
}

func toBitDepth(v int) (pcm.BitDepth, error) {
	switch v {
	case 16:
		return pcm.Depth16, nil
	case 24:
		return pcm.Depth24, nil
	case 32:
		return pcm.Depth32, nil
	default:
		return 0, errInvalidBitDepth
	}
}

// openInput resolves the "<file | ->" argument into a reader. For "-" it
// buffers all of stdin upfront, since the stream has no seekable length to
// report against; for a file it opens it directly.
func openInput(source string) (io.Reader, func(), error) {
	if source == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, func() {}, fmt.Errorf("reading stdin: %w", err)
		}

		return bytes.NewReader(data), func() {}, nil
	}

	file, err := os.Open(source) //nolint:gosec // CLI tool opens user-specified audio files
	if err != nil {
		return nil, func() {}, fmt.Errorf("opening %s: %w", source, err)
	}

	return file, func() { file.Close() }, nil
}

// runBlocks reads frameSize-aligned chunks from reader, decodes each block
// of PCM into a stereo pair, runs it through processor, and logs a running
// summary followed by a final report, both on stdout.
func runBlocks(reader io.Reader, format pcm.Format, blockFrames int, processor *dsp.Processor, quiet bool) error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	bytesPerSample := format.BitDepth.BytesPerSample()
	frameSize := bytesPerSample * format.Channels
	buf := make([]byte, frameSize*blockFrames)

	var (
		blockIndex  int
		totalFrames int
		anyClipped  bool
	)

	for {
		n, err := io.ReadFull(reader, buf)
		if n > 0 {
			completeFrames := (n / frameSize) * frameSize
			left, right, decodeErr := pcm.DecodeStereo(buf[:completeFrames], format)
			if decodeErr != nil {
				return fmt.Errorf("decoding block %d: %w", blockIndex, decodeErr)
			}

			clipped := processor.Process(left, right)
			if clipped {
				anyClipped = true
			}

			if !quiet {
				logger.Info("block",
					"index", blockIndex,
					"gain_reduction_db", processor.GainReduction(),
					"integrated_lufs", processor.IntegratedLoudness(),
					"true_peak_dbtp", processor.TruePeakDB(),
					"correlation", processor.Correlation(),
					"clipped", clipped,
				)
			}

			blockIndex++
			totalFrames += len(left)
		}

		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}

		if err != nil {
			return fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
		}
	}

	logger.Info("final report",
		"blocks", blockIndex,
		"frames", totalFrames,
		"integrated_lufs", processor.IntegratedLoudness(),
		"loudness_range_lu", processor.LoudnessRangeLU(),
		"true_peak_dbtp", processor.TruePeakDB(),
		"correlation", processor.Correlation(),
		"clipped", anyClipped,
	)

	return nil
}
