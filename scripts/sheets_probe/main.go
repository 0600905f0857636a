package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// sheets_probe checks every data API endpoint the gateway depends on and
// reports envelope health and latency. Intended for smoke-testing a fresh
// spreadsheet deployment before pointing the gateway at it.

type probe struct {
	Name     string
	Path     string
	Critical bool
}

var probes = []probe{
	{Name: "classes", Path: "/classes", Critical: true},
	{Name: "students", Path: "/students", Critical: true},
	{Name: "gamification", Path: "/gamification", Critical: true},
	{Name: "badges", Path: "/badges", Critical: true},
	{Name: "levels", Path: "/levels", Critical: true},
	{Name: "challenges", Path: "/challenges", Critical: false},
	{Name: "attendance", Path: "/attendance", Critical: true},
	{Name: "assignments", Path: "/assignments", Critical: true},
	{Name: "grades", Path: "/grades", Critical: true},
}

type result struct {
	Probe    probe
	Status   int
	Success  bool
	Message  string
	Duration time.Duration
	Err      error
}

func main() {
	var (
		base    string
		token   string
		timeout time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:3000/api", "Data API base URL")
	flag.StringVar(&token, "token", "", "Bearer token for the data API")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}

	var failures int
	fmt.Println("Sheets API Probe")
	fmt.Println("================")
	for _, p := range probes {
		res := runProbe(client, base, token, p)
		printResult(res)
		if p.Critical && (res.Err != nil || !res.Success) {
			failures++
		}
	}

	fmt.Printf("Critical failures: %d\n", failures)
	if failures > 0 {
		os.Exit(1)
	}
}

func runProbe(client *http.Client, base, token string, p probe) result {
	res := result{Probe: p}
	url := strings.TrimRight(base, "/") + p.Path

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		res.Err = err
		return res
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = err
		return res
	}
	defer resp.Body.Close() //nolint:errcheck

	res.Status = resp.StatusCode
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		res.Err = err
		return res
	}

	var envelope struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		res.Err = fmt.Errorf("non-JSON response: %w", err)
		return res
	}
	res.Success = envelope.Success
	res.Message = envelope.Error
	return res
}

func printResult(res result) {
	status := "OK"
	if res.Err != nil {
		status = "ERROR"
	} else if !res.Success {
		status = "FAIL"
	}
	fmt.Printf("[%s] %s (%s)\n", status, res.Probe.Name, res.Duration)
	if res.Err != nil {
		fmt.Printf("  Error: %v\n", res.Err)
	} else if !res.Success {
		fmt.Printf("  HTTP %d: %s\n", res.Status, res.Message)
	}
}
