// Command matchbot drives a match against a running server over the REST
// API: it creates a match, starts it, and random-walks both players until the
// match ends. Useful for smoke-testing a deployment and for generating
// websocket traffic to observe.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

var directions = []string{"up", "down", "left", "right"}

type matchInfo struct {
	ID string `json:"id"`
}

type moveResult struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Update  struct {
		Time  int `json:"time"`
		Board struct {
			RoundsLeft int `json:"roundsLeft"`
		} `json:"board"`
	} `json:"update"`
}

type bot struct {
	server string
	client *http.Client
	log    *logrus.Entry
}

func main() {
	cmd := &cli.Command{
		Name:  "matchbot",
		Usage: "play a random-walk match against a running server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "server",
				Value: "http://localhost:8080",
				Usage: "base URL of the match server",
			},
			&cli.IntFlag{
				Name:  "level",
				Value: 1,
				Usage: "level to play",
			},
			&cli.DurationFlag{
				Name:  "delay",
				Value: 150 * time.Millisecond,
				Usage: "pause between moves",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		logrus.WithError(err).Fatal("matchbot failed")
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	b := &bot{
		server: cmd.String("server"),
		client: &http.Client{Timeout: 10 * time.Second},
		log:    logrus.WithField("component", "matchbot"),
	}

	match, err := b.createMatch(int(cmd.Int("level")))
	if err != nil {
		return err
	}
	b.log.WithField("match", match.ID).Info("match created")

	if err := b.post(fmt.Sprintf("/api/matches/%s/start", match.ID), nil, nil); err != nil {
		return fmt.Errorf("failed to start match: %w", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ticker := time.NewTicker(cmd.Duration("delay"))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		for _, player := range []string{"bot-host", "bot-guest"} {
			result, err := b.move(match.ID, player, directions[rng.Intn(len(directions))])
			if err != nil {
				// The server drops the match once it ends.
				b.log.WithError(err).Info("match over or unreachable, stopping")
				return nil
			}
			if result.Update.Time <= 0 || result.Update.Board.RoundsLeft == 0 {
				b.log.WithFields(logrus.Fields{
					"time":   result.Update.Time,
					"rounds": result.Update.Board.RoundsLeft,
				}).Info("match finished")
				return nil
			}
		}
	}
}

func (b *bot) createMatch(level int) (*matchInfo, error) {
	req := map[string]any{
		"host_id":  "bot-host",
		"guest_id": "bot-guest",
		"level":    level,
	}
	var match matchInfo
	if err := b.post("/api/matches", req, &match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	return &match, nil
}

func (b *bot) move(matchID, playerID, direction string) (*moveResult, error) {
	req := map[string]string{
		"player_id": playerID,
		"direction": direction,
	}
	var result moveResult
	if err := b.post(fmt.Sprintf("/api/matches/%s/move", matchID), req, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		b.log.WithFields(logrus.Fields{
			"player": playerID,
			"code":   result.Code,
		}).Debug("move rejected")
	}
	return &result, nil
}

// post sends a JSON request and decodes the JSON response when out is
// non-nil. Non-2xx statuses are errors.
func (b *bot) post(path string, in, out any) error {
	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return err
		}
	}

	resp, err := b.client.Post(b.server+path, "application/json", &body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned %s", path, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
