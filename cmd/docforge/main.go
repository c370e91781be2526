// Command docforge runs the document rendering and verification server, or
// one of its one-shot CLI operations, dispatched from argv[1].
package main

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/docforge/docforge/pkg/protocol/auth"
	"github.com/docforge/docforge/pkg/protocol/mcp"
	"github.com/docforge/docforge/pkg/protocol/middleware"
	"github.com/docforge/docforge/pkg/render"
	"github.com/docforge/docforge/pkg/render/fonts"
	"github.com/docforge/docforge/pkg/render/templates"
	"github.com/docforge/docforge/pkg/signing"
	"github.com/docforge/docforge/pkg/verify"
)

func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// Run is the CLI entrypoint, factored out from main so it can be driven
// from tests with captured args and writers instead of the process's own.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		return runServe(nil, stdout, stderr)
	}

	switch args[1] {
	case "serve":
		return runServe(args[2:], stdout, stderr)
	case "stdio":
		return runStdio(args[2:], stdout, stderr)
	case "render":
		return runRenderCmd(args[2:], stdout, stderr)
	case "verify":
		return runVerifyCmd(args[2:], stdout, stderr)
	case "sign":
		return runSignCmd(args[2:], stdout, stderr)
	case "help", "--help", "-h":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n", args[1])
		printUsage(stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "docforge — document rendering and verification")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  docforge serve [--addr :8080]       run the HTTP + JSON-RPC server")
	fmt.Fprintln(w, "  docforge stdio                       run the stdio JSON-RPC loop")
	fmt.Fprintln(w, "  docforge render --template NAME      render a built-in template to stdout")
	fmt.Fprintln(w, "  docforge verify --pdf FILE           run compliance + anomaly checks on a PDF")
	fmt.Fprintln(w, "  docforge sign --file FILE            sign a file's SHA-256 with an ephemeral key")
}

func newLogger() *zap.Logger {
	log, err := zap.NewProduction()
	if err != nil {
		log = zap.NewNop()
	}
	return log
}

// buildToolSet wires the shared, process-wide render state (font cache,
// template registry) and the verifier into one ToolSet the MCP server's
// method table dispatches tool calls through.
func buildToolSet(log *zap.Logger, timeoutMs int) (*mcp.ToolSet, *templates.Registry, *render.Engine, error) {
	reg := templates.Default()
	fontCache := fonts.Build(nil)
	engine := render.NewEngine(reg, fontCache, log)

	verifier, err := verify.New()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("building verifier: %w", err)
	}

	tools := mcp.NewToolSet(engine, fontCache, reg, verifier, timeoutMs)
	return tools, reg, engine, nil
}

func runServe(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	addr := fs.String("addr", ":8080", "HTTP listen address")
	timeoutMs := fs.Int("compile-timeout-ms", 10_000, "per-compile wall-clock budget")
	rps := fs.Int("rate-limit-rps", 20, "per-IP requests/second")
	burst := fs.Int("rate-limit-burst", 40, "per-IP burst size")
	jwtSecret := fs.String("jwt-secret", os.Getenv("DOCFORGE_JWT_SECRET"), "bearer-JWT signing secret; empty disables auth")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	log := newLogger()
	defer log.Sync() //nolint:errcheck

	tools, reg, engine, err := buildToolSet(log, *timeoutMs)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	server := mcp.NewServer(tools, reg, log, "0.1.0")
	events := mcp.NewBroadcaster()

	mux := http.NewServeMux()
	server.RegisterRoutes(mux, events, engine, *timeoutMs)

	var tm *auth.TokenManager
	if *jwtSecret != "" {
		tm = auth.NewTokenManager(*jwtSecret, "docforge")
	}

	limiter := middleware.NewGlobalRateLimiter(*rps, *burst)
	idempotency := middleware.NewIdempotencyStore(10 * time.Minute)

	var handler http.Handler = mux
	handler = middleware.IdempotencyMiddleware(idempotency)(handler)
	handler = auth.Middleware(tm)(handler)
	handler = limiter.Middleware(handler)

	fmt.Fprintf(stdout, "docforge listening on %s\n", *addr)
	log.Info("server starting", zap.String("addr", *addr))
	if err := http.ListenAndServe(*addr, handler); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func runStdio(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("stdio", flag.ContinueOnError)
	fs.SetOutput(stderr)
	timeoutMs := fs.Int("compile-timeout-ms", 10_000, "per-compile wall-clock budget")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	log := newLogger()
	defer log.Sync() //nolint:errcheck

	tools, reg, _, err := buildToolSet(log, *timeoutMs)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	server := mcp.NewServer(tools, reg, log, "0.1.0")
	if err := mcp.ServeStdio(context.Background(), server, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func runRenderCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	template := fs.String("template", "", "template name (see `list_templates`)")
	source := fs.String("source", "", "inline source; mutually exclusive with --template")
	format := fs.String("format", "pdf", "pdf|svg|png")
	out := fs.String("out", "", "output path; defaults to stdout")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *template == "" && *source == "" {
		fmt.Fprintln(stderr, "one of --template or --source is required")
		return 2
	}

	reg := templates.Default()
	engine := render.NewEngine(reg, fonts.Build(nil), nil)

	req := render.RenderRequest{Format: render.Format(*format)}
	if *template != "" {
		req.Source = "typst://templates/" + *template
	} else {
		req.Source = *source
	}

	resp, eerr := engine.Compile(context.Background(), req, 10_000)
	if eerr != nil {
		fmt.Fprintln(stderr, eerr)
		return 1
	}
	if len(resp.Errors) > 0 {
		for _, d := range resp.Errors {
			fmt.Fprintln(stderr, d.Message)
		}
		return 1
	}

	if *out == "" {
		_, err := stdout.Write(resp.Artifact)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}
	if err := os.WriteFile(*out, resp.Artifact, 0o644); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func runVerifyCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(stderr)
	pdfPath := fs.String("pdf", "", "path to a PDF file")
	state := fs.String("state", "florida", "jurisdiction state code")
	detectAnomalies := fs.Bool("detect-anomalies", true, "run the structural anomaly sweep")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *pdfPath == "" {
		fmt.Fprintln(stderr, "--pdf is required")
		return 2
	}

	pdfBytes, err := os.ReadFile(*pdfPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	verifier, err := verify.New()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	report, err := verifier.VerifyLease(pdfBytes, *state, *detectAnomalies)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	fmt.Fprintf(stdout, "status: %s\n", report.Summary.Status)
	fmt.Fprintf(stdout, "violations: %d critical, %d warnings\n", report.Summary.Critical, report.Summary.Warnings)
	for _, c := range report.ComplianceChecks {
		fmt.Fprintf(stdout, "  [%s] %s: %s\n", c.Severity, c.Statute, c.Message)
	}
	for _, a := range report.Anomalies {
		fmt.Fprintf(stdout, "  anomaly: %s\n", a.Description)
	}
	return 0
}

func runSignCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sign", flag.ContinueOnError)
	fs.SetOutput(stderr)
	filePath := fs.String("file", "", "path to the file to sign")
	tsaEndpoint := fs.String("tsa-endpoint", "", "RFC 3161 timestamp authority URL; empty skips timestamping")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *filePath == "" {
		fmt.Fprintln(stderr, "--file is required")
		return 2
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	identity, err := signing.GenerateEphemeralIdentity()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	hash := sha256.Sum256(data)
	sig, err := identity.SignPrehashed(hash)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	fmt.Fprintf(stdout, "document_hash: %s\n", hex.EncodeToString(hash[:]))
	fmt.Fprintf(stdout, "signature: %s\n", base64.StdEncoding.EncodeToString(sig))
	fmt.Fprintf(stdout, "public_key: %s\n", base64.StdEncoding.EncodeToString(identity.PublicKeyDER()))

	if *tsaEndpoint != "" {
		client := signing.NewTSAClient(*tsaEndpoint)
		token, err := client.Timestamp(context.Background(), sig)
		if err != nil {
			fmt.Fprintln(stderr, "timestamp:", err)
			return 1
		}
		fmt.Fprintf(stdout, "timestamp_token: %s\n", base64.StdEncoding.EncodeToString(token))
	}
	return 0
}
