package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

// Minimal status client for the tracker API, handy for shell checks
// without opening the dashboard.

type statusResponse struct {
	Data struct {
		Running           bool      `json:"running"`
		Idle              bool      `json:"idle"`
		SessionOpen       bool      `json:"session_open"`
		SinceActivitySecs int64     `json:"since_activity_seconds"`
		LastActivity      time.Time `json:"last_activity"`
		Hostname          string    `json:"hostname"`
		OS                string    `json:"os"`
		Session           *struct {
			AppName           string    `json:"app_name"`
			Category          string    `json:"category"`
			ProductivityScore float64   `json:"productivity_score"`
			StartTime         time.Time `json:"start_time"`
		} `json:"session"`
	} `json:"data"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:3000", "tracker API base URL")
	flag.Parse()

	resp, err := http.Get(*baseURL + "/api/tracker/v1/status")
	if err != nil {
		color.Red("tracker unreachable: %v", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		color.Red("bad response: %v", err)
		os.Exit(1)
	}

	d := status.Data
	state := color.GreenString("running")
	if !d.Running {
		state = color.RedString("stopped")
	} else if d.Idle {
		state = color.YellowString("idle")
	}
	fmt.Printf("tracker %s on %s (%s)\n", state, d.Hostname, d.OS)

	if d.SessionOpen && d.Session != nil {
		fmt.Printf("  session: %s [%s] score %.2f, since %s\n",
			color.CyanString(d.Session.AppName),
			d.Session.Category,
			d.Session.ProductivityScore,
			d.Session.StartTime.Format(time.Kitchen),
		)
	} else {
		fmt.Println("  no open session")
	}
	fmt.Printf("  last activity: %s (%ds ago)\n", d.LastActivity.Format(time.Kitchen), d.SinceActivitySecs)
}
