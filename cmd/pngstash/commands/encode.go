// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/pngstash/cmd/pngstash/cli"
	"github.com/bureau-foundation/pngstash/lib/config"
	"github.com/bureau-foundation/pngstash/lib/envelope"
	"github.com/bureau-foundation/pngstash/lib/png"
	"github.com/bureau-foundation/pngstash/lib/secret"
)

// maxMessageFromInput bounds --message-file reads.
const maxMessageFromInput = envelope.MaxPayloadSize

type encodeParams struct {
	globalParams
	lockParams

	Output      string   `flag:"output,o" desc:"write the result here instead of modifying the file in place"`
	MessageFile string   `flag:"message-file,f" desc:"read the message from a file (\"-\" for stdin) instead of the command line"`
	Compression string   `flag:"compression,c" desc:"compress the message: none, lz4 or zstd (default from config)"`
	Recipients  []string `flag:"recipient,r" desc:"seal the message to this age public key (repeatable)"`
	KeyFile     string   `flag:"key-file" desc:"seal the message with the shared key in this file"`
}

func encodeCommand(streams Streams) *cli.Command {
	var params encodeParams
	return &cli.Command{
		Name:    "encode",
		Summary: "Hide a message in a new chunk",
		Description: `Append a chunk holding a message to a PNG file. The chunk goes
immediately before the final chunk (IEND), so image viewers ignore it.

The chunk type defaults to encode.chunk_type from the configuration
(stSh). Ancillary private types (lowercase first and second letters)
keep the image displayable. Types with a lowercase third letter are
rejected because the PNG reserved bit must be clear.

With --compression, --recipient or --key-file (or their configuration
equivalents) the message is wrapped in a pngstash envelope: compressed,
then sealed to age recipients or with a shared key. Without them the
chunk holds the message bytes unchanged.`,
		Usage: "pngstash encode <file> [type] <message> [flags]",
		Examples: []cli.Example{
			{
				Description: "Hide a message in a RuSt chunk",
				Command:     `pngstash encode dice.png RuSt "This is where your secret message will be!"`,
			},
			{
				Description: "Seal a file's contents to an age recipient, writing a copy",
				Command:     "pngstash encode dice.png -f notes.txt -r age1... -o dice-notes.png",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("encode", &params)
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			cfg, err := params.loadConfig()
			if err != nil {
				return err
			}

			var path, typeName string
			var message []byte
			if params.MessageFile != "" {
				if err := argumentCount(args, 1, 2, "<file> [type]"); err != nil {
					return err
				}
				path = args[0]
				if len(args) == 2 {
					typeName = args[1]
				}
				message, err = readMessageFile(streams.In, params.MessageFile)
				if err != nil {
					return err
				}
			} else {
				if err := argumentCount(args, 2, 3, "<file> [type] <message>"); err != nil {
					return err
				}
				path = args[0]
				if len(args) == 3 {
					typeName = args[1]
				}
				message = []byte(args[len(args)-1])
			}
			if typeName == "" {
				typeName = cfg.Encode.ChunkType
			}

			chunkType, err := parseEncodeType(typeName)
			if err != nil {
				return err
			}

			payload, wrapped, err := buildPayload(message, params, cfg)
			if err != nil {
				return err
			}

			logger = logger.With("file", path, "type", chunkType.String())
			err = editImage(ctx, params.lockParams, path, params.Output, func(container *png.PNG) error {
				container.Append(png.NewChunk(chunkType, payload))
				return nil
			})
			if err != nil {
				return err
			}
			logger.Debug("message encoded",
				"message_bytes", len(message),
				"chunk_bytes", len(payload),
				"envelope", wrapped,
				"output", params.Output,
			)
			return nil
		},
	}
}

// parseEncodeType additionally requires the reserved bit to be clear:
// pngstash does not write chunks that other decoders must reject.
func parseEncodeType(name string) (png.ChunkType, error) {
	chunkType, err := parseLookupType(name)
	if err != nil {
		return png.ChunkType{}, err
	}
	if !chunkType.IsValid() {
		return png.ChunkType{}, cli.Validation("chunk type %q has the reserved bit set", name).
			WithHint("Make the third letter uppercase, e.g. " + suggestReservedFix(chunkType) + ".")
	}
	return chunkType, nil
}

func suggestReservedFix(chunkType png.ChunkType) string {
	fixed := chunkType
	fixed[2] &^= 0x20
	return fixed.String()
}

// buildPayload returns the chunk payload for message and whether it
// was wrapped in an envelope. Command-line sealing options replace the
// configured ones as a group.
func buildPayload(message []byte, params encodeParams, cfg *config.Config) ([]byte, bool, error) {
	compressionName := params.Compression
	if compressionName == "" {
		compressionName = cfg.Encode.Compression
	}
	compression, err := envelope.ParseCompression(compressionName)
	if err != nil {
		return nil, false, cli.Validation("--compression: %w", err)
	}

	recipients, keyFile := params.Recipients, params.KeyFile
	if len(recipients) == 0 && keyFile == "" {
		recipients, keyFile = cfg.Encode.Recipients, cfg.Encode.KeyFile
	}
	if len(recipients) > 0 && keyFile != "" {
		return nil, false, cli.Validation("--recipient and --key-file are mutually exclusive")
	}

	if compression == envelope.CompressionNone && len(recipients) == 0 && keyFile == "" {
		return message, false, nil
	}

	options := envelope.Options{Compression: compression, Recipients: recipients}
	if keyFile != "" {
		encoded, err := secret.ReadKeyFile(keyFile)
		if err != nil {
			return nil, false, cli.Validation("reading key file: %w", err)
		}
		defer encoded.Close()
		key, err := envelope.DecodeKey(encoded)
		if err != nil {
			return nil, false, cli.Validation("%s: %w", keyFile, err)
		}
		defer key.Close()
		options.Key = key
	}

	payload, err := envelope.Seal(message, options)
	if err != nil {
		return nil, false, cli.Validation("sealing message: %w", err)
	}
	return payload, true, nil
}

func readMessageFile(stdin io.Reader, path string) ([]byte, error) {
	source := stdin
	if path != "-" {
		file, err := openInput(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		source = file
	}
	message, err := io.ReadAll(io.LimitReader(source, maxMessageFromInput+1))
	if err != nil {
		return nil, cli.Internal("reading message: %w", err)
	}
	if len(message) > maxMessageFromInput {
		return nil, cli.Validation("message is larger than %d bytes", maxMessageFromInput)
	}
	return message, nil
}
