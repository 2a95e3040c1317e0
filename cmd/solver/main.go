package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"routesolve/internal/model"
	"routesolve/internal/solver"
)

// Contract process: one JSON request on stdin, one JSON response on stdout.
// Diagnostics go to stderr. The exit code is non-zero only when the request
// itself is unusable (unreadable, unparseable, or structurally invalid);
// solver-level failures are reported inside the response body.

func main() {
	log.SetOutput(os.Stderr)
	log.SetLevel(log.WarnLevel)
	if lvl, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fail(fmt.Sprintf("reading stdin: %v", err))
	}
	if len(data) == 0 {
		fail("empty input")
	}

	var req model.SolveRequest
	if err := json.Unmarshal(data, &req); err != nil {
		fail(fmt.Sprintf("parsing request: %v", err))
	}

	m, err := solver.Compile(&req)
	if err != nil {
		fail(err.Error())
	}
	for _, warn := range m.Warnings {
		log.Warn(warn)
	}

	res := m.Solve()
	for _, warn := range res.Warnings {
		log.Warn(warn)
	}

	resp := model.NewSolveResponse()
	resp.Routes = res.Routes
	resp.DroppedNodeIndices = res.Dropped
	resp.Error = res.Err

	enc := json.NewEncoder(os.Stdout)
	if err := enc.Encode(resp); err != nil {
		log.WithError(err).Error("writing response")
		os.Exit(1)
	}
}

// fail writes the error response to both streams and exits non-zero.
func fail(msg string) {
	resp := model.NewSolveResponse()
	resp.Error = msg
	b, _ := json.Marshal(resp)
	fmt.Fprintln(os.Stdout, string(b))
	fmt.Fprintln(os.Stderr, string(b))
	os.Exit(1)
}
