package main

import (
	"bytes"
	_ "embed"
	"html/template"
	"net"
	"net/http"
	"os"

	"github.com/charmbracelet/log"

	"github.com/tomz197/blockcatch/internal/config"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

type page struct {
	SSHHost string
	SSHPort string
	Goal    int
	Seconds float64
	Blocks  []config.BlockArchetype
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "web"})

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	sshPort := config.GetEnv("SSH_PORT", "2222")

	settings, err := config.FromEnv(config.Default())
	if err != nil {
		logger.Fatal("bad game settings", "err", err)
	}

	tmpl := template.Must(template.New("index").Parse(htmlPage))
	var buf bytes.Buffer
	err = tmpl.Execute(&buf, page{
		SSHHost: sshHost,
		SSHPort: sshPort,
		Goal:    settings.ScoreThreshold,
		Seconds: settings.MaxSeconds,
		Blocks:  settings.Blocks[:],
	})
	if err != nil {
		logger.Fatal("render page", "err", err)
	}
	body := buf.Bytes()

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(body)
	})

	addr := net.JoinHostPort(host, port)
	logger.Info("starting web server", "addr", "http://"+addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
