package main

import (
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Querulantenkind/stegano-cli/internal/chaff"
	"github.com/Querulantenkind/stegano-cli/internal/cipher"
	"github.com/Querulantenkind/stegano-cli/internal/config"
	"github.com/Querulantenkind/stegano-cli/internal/cover"
	"github.com/Querulantenkind/stegano-cli/internal/integrity"
	"github.com/Querulantenkind/stegano-cli/internal/pipeline"
	"github.com/Querulantenkind/stegano-cli/internal/platform/privacylog"
	"github.com/Querulantenkind/stegano-cli/internal/stego"
)

const (
	exitOK           = 0
	exitInvalidInput = 10
	exitNoArtifact   = 20
	exitCorrupted    = 30
	exitAuthFailed   = 40
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitInvalidInput)
	}

	switch os.Args[1] {
	case "keygen":
		runKeygen(os.Args[2:])
	case "encode":
		runEncode(os.Args[2:])
	case "decode":
		runDecode(os.Args[2:])
	case "version":
		fmt.Printf("stegano version=%s commit=%s build_date=%s\n", version, commit, buildDate)
	default:
		printUsage()
		os.Exit(exitInvalidInput)
	}
}

func runKeygen(args []string) {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	output := fs.String("output", "", "write the private key to this file (default: stdout)")
	mnemonic := fs.Bool("mnemonic", false, "also print a BIP-39 recovery phrase for the key")
	fromMnemonic := fs.String("from-mnemonic", "", "recover the identity from a BIP-39 phrase instead of generating")
	armor := fs.Bool("armor", false, "wrap the private key under a passphrase (requires -output)")
	if err := fs.Parse(args); err != nil {
		writeStderrln(err.Error(), exitInvalidInput)
	}

	var (
		id     *cipher.Identity
		phrase string
		err    error
	)
	switch {
	case *fromMnemonic != "":
		id, err = cipher.IdentityFromMnemonic(*fromMnemonic)
	case *mnemonic:
		phrase, id, err = cipher.NewMnemonicIdentity(rand.Reader)
	default:
		id, err = cipher.GenerateIdentity(rand.Reader)
	}
	if err != nil {
		writeStderrln(err.Error(), exitInvalidInput)
	}
	defer id.Wipe()

	var payload []byte
	if *armor {
		if *output == "" {
			writeStderrln("-armor requires -output", exitInvalidInput)
		}
		payload, err = cipher.ArmorIdentity(readPassphrase(), id)
		if err != nil {
			writeStderrln(err.Error(), exitInvalidInput)
		}
	} else {
		payload = []byte(id.String() + "\n")
	}

	writeStderrf("public key: %s\n", id.Recipient().String())
	if phrase != "" {
		writeStderrf("recovery phrase: %s\n", phrase)
	}

	if *output != "" {
		if err := os.WriteFile(*output, payload, 0o600); err != nil {
			writeStderrln(err.Error(), exitInvalidInput)
		}
	} else {
		if _, err := os.Stdout.Write(payload); err != nil {
			writeStderrln(err.Error(), exitInvalidInput)
		}
	}
	os.Exit(exitOK)
}

func runEncode(args []string) {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.yaml (optional)")
	coverPath := fs.String("cover", "", "cover text file")
	recipientList := fs.String("recipients", "", "comma-separated public-key tokens")
	recipientsFile := fs.String("recipients-file", "", "file with one public-key token per line")
	message := fs.String("message", "", "secret message (default: read stdin)")
	messageFile := fs.String("message-file", "", "file containing the secret message")
	decoyMessage := fs.String("decoy-message", "", "decoy message, encrypted to -decoy-recipient")
	decoyRecipient := fs.String("decoy-recipient", "", "public-key token receiving the decoy")
	output := fs.String("output", "", "output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		writeStderrln(err.Error(), exitInvalidInput)
	}

	cfg := config.LoadFromPath(*configPath)
	log := newLogger(cfg.LogLevel)

	if *coverPath == "" {
		*coverPath = cfg.CoverPath
	}
	if *coverPath == "" {
		writeStderrln("cover text file is required (-cover or config coverPath)", exitInvalidInput)
	}
	if *recipientsFile == "" && *recipientList == "" {
		*recipientsFile = cfg.RecipientsPath
	}

	recipients, err := gatherRecipients(*recipientList, *recipientsFile)
	if err != nil {
		writeStderrln(err.Error(), exitInvalidInput)
	}

	secret, err := readMessage(*message, *messageFile)
	if err != nil {
		writeStderrln(err.Error(), exitInvalidInput)
	}

	req := pipeline.EncodeRequest{
		Message:    secret,
		Recipients: recipients,
	}
	if *decoyMessage != "" || *decoyRecipient != "" {
		if *decoyMessage == "" || *decoyRecipient == "" {
			writeStderrln("-decoy-message and -decoy-recipient must be given together", exitInvalidInput)
		}
		rec, err := cipher.ParseRecipient(*decoyRecipient)
		if err != nil {
			writeStderrln(err.Error(), exitInvalidInput)
		}
		req.Decoy = []byte(*decoyMessage)
		req.DecoyRecipients = []*cipher.Recipient{rec}
	}

	p := pipeline.New(
		pipeline.WithCoverProvider(cover.FileProvider{Path: *coverPath}),
		pipeline.WithLogger(log),
	)
	artifact, err := p.Encode(req)
	if err != nil {
		writeStderrln(err.Error(), encodeExitCode(err))
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(artifact), 0o644); err != nil {
			writeStderrln(err.Error(), exitInvalidInput)
		}
	} else {
		fmt.Print(artifact)
	}
	writeStderrf("embedded %d bytes of payload into cover text\n", len(secret))
	os.Exit(exitOK)
}

func runDecode(args []string) {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.yaml (optional)")
	input := fs.String("input", "", "artifact file (default: stdin)")
	identityPath := fs.String("identity", "", "private identity file")
	if err := fs.Parse(args); err != nil {
		writeStderrln(err.Error(), exitInvalidInput)
	}

	cfg := config.LoadFromPath(*configPath)
	log := newLogger(cfg.LogLevel)

	if *identityPath == "" {
		*identityPath = cfg.IdentityPath
	}
	if *identityPath == "" {
		writeStderrln("identity file is required (-identity or config identityPath)", exitInvalidInput)
	}

	id, err := loadIdentity(*identityPath)
	if err != nil {
		writeStderrln(err.Error(), exitInvalidInput)
	}
	defer id.Wipe()

	artifact, err := readInput(*input)
	if err != nil {
		writeStderrln(err.Error(), exitInvalidInput)
	}

	p := pipeline.New(pipeline.WithLogger(log))
	plaintext, err := p.Decode(string(artifact), id)
	if err != nil {
		writeStderrln(err.Error(), decodeExitCode(err))
	}

	if _, err := os.Stdout.Write(plaintext); err != nil {
		writeStderrln(err.Error(), exitInvalidInput)
	}
	os.Exit(exitOK)
}

// decodeExitCode separates "this is not an artifact" (often just a probe of
// unknown text) from damage and from cryptographic rejection.
func decodeExitCode(err error) int {
	switch {
	case errors.Is(err, stego.ErrNoArtifactFound):
		return exitNoArtifact
	case errors.Is(err, stego.ErrTruncatedArtifact),
		errors.Is(err, stego.ErrMalformedFrame),
		errors.Is(err, chaff.ErrMalformedContainer),
		errors.Is(err, integrity.ErrChecksumMismatch),
		errors.Is(err, integrity.ErrTooShort):
		return exitCorrupted
	case errors.Is(err, cipher.ErrNoMatchingIdentity),
		errors.Is(err, cipher.ErrAuthentication),
		errors.Is(err, chaff.ErrAmbiguousContainer):
		return exitAuthFailed
	default:
		return exitInvalidInput
	}
}

func encodeExitCode(err error) int {
	if errors.Is(err, stego.ErrCoverTextTooShort) {
		return exitCorrupted
	}
	return exitInvalidInput
}

func gatherRecipients(list, file string) ([]*cipher.Recipient, error) {
	var recipients []*cipher.Recipient
	for _, token := range strings.Split(list, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		rec, err := cipher.ParseRecipient(token)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, rec)
	}
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		fromFile, err := cipher.ParseRecipients(f)
		if err != nil {
			return nil, err
		}
		recipients = append(recipients, fromFile...)
	}
	if len(recipients) == 0 {
		return nil, cipher.ErrEmptyRecipientSet
	}
	return recipients, nil
}

// loadIdentity reads a private identity file, transparently unarmoring
// passphrase-protected ones.
func loadIdentity(path string) (*cipher.Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.HasPrefix(string(data), "STEGANO-ARMOR-1") {
		return cipher.UnarmorIdentity(readPassphrase(), data)
	}
	identities, err := cipher.ParseIdentities(strings.NewReader(string(data)))
	if err != nil {
		return nil, err
	}
	return identities[0], nil
}

func readMessage(message, messageFile string) ([]byte, error) {
	switch {
	case message != "":
		return []byte(message), nil
	case messageFile != "":
		return os.ReadFile(messageFile)
	default:
		writeStderrf("enter secret message, end with EOF:\n")
		return io.ReadAll(os.Stdin)
	}
}

func readInput(path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(os.Stdin)
}

// readPassphrase takes STEGANO_PASSPHRASE when set, otherwise prompts on
// stderr and reads one line from stdin.
func readPassphrase() string {
	if p := os.Getenv("STEGANO_PASSPHRASE"); p != "" {
		return p
	}
	writeStderrf("passphrase: ")
	var line string
	fmt.Fscanln(os.Stdin, &line)
	return strings.TrimSpace(line)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return slog.New(privacylog.WrapHandler(handler))
}

func printUsage() {
	writeStdoutln("stegano <command> [flags]")
	writeStdoutln("commands:")
	writeStdoutln("  keygen  [--output path] [--mnemonic] [--from-mnemonic phrase] [--armor]")
	writeStdoutln("  encode  --cover path --recipients tok[,tok] | --recipients-file path [--message text | --message-file path] [--decoy-message text --decoy-recipient tok] [--output path]")
	writeStdoutln("  decode  [--input path] --identity path")
	writeStdoutln("  version")
}

func writeStdoutln(line string) {
	if _, err := fmt.Fprintln(os.Stdout, line); err != nil {
		os.Exit(exitInvalidInput)
	}
}

func writeStderrf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}

func writeStderrln(line string, exitCode int) {
	if _, err := fmt.Fprintln(os.Stderr, line); err != nil {
		os.Exit(exitCode)
	}
	os.Exit(exitCode)
}
