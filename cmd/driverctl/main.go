// SPDX-License-Identifier: Apache-2.0

// driverctl is a small operator client for a running driver server: create
// and tear down sessions, type text, click elements, and replay action
// sequence files without writing a WebDriver client.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "driverctl",
		Usage: "drive a running windriver server from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Value:   "http://localhost:4723",
				Usage:   "driver server base URL",
				EnvVars: []string{"DRIVER_SERVER"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: "print server status",
				Action: func(c *cli.Context) error {
					return printResponse(newClient(c).get("/status"))
				},
			},
			{
				Name:  "session",
				Usage: "session lifecycle",
				Subcommands: []*cli.Command{
					{
						Name:  "create",
						Usage: "create a session bound to an application window",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "app", Usage: "window title substring"},
							&cli.StringFlag{Name: "class", Usage: "window class name"},
							&cli.Float64Flag{Name: "scale", Usage: "override DPI scale ratio"},
						},
						Action: func(c *cli.Context) error {
							match := map[string]any{}
							if app := c.String("app"); app != "" {
								match["app"] = app
							}
							if class := c.String("class"); class != "" {
								match["appClass"] = class
							}
							if scale := c.Float64("scale"); scale > 0 {
								match["scaleRatio"] = scale
							}
							return printResponse(newClient(c).post("/session", map[string]any{
								"capabilities": map[string]any{"alwaysMatch": match},
							}))
						},
					},
					{
						Name:  "delete",
						Usage: "delete a session",
						Flags: []cli.Flag{sessionFlag()},
						Action: func(c *cli.Context) error {
							return printResponse(newClient(c).delete("/session/" + c.String("session")))
						},
					},
					{
						Name:  "list",
						Usage: "list active sessions",
						Action: func(c *cli.Context) error {
							return printResponse(newClient(c).get("/sessions"))
						},
					},
				},
			},
			{
				Name:  "commands",
				Usage: "list recent audited commands",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 50},
				},
				Action: func(c *cli.Context) error {
					path := fmt.Sprintf("/commands?limit=%d", c.Int("limit"))
					return printResponse(newClient(c).get(path))
				},
			},
			{
				Name:  "keys",
				Usage: "type text into the session target",
				Flags: []cli.Flag{
					sessionFlag(),
					&cli.StringFlag{Name: "text", Required: true},
				},
				Action: func(c *cli.Context) error {
					path := fmt.Sprintf("/session/%s/keys", c.String("session"))
					return printResponse(newClient(c).post(path, map[string]any{
						"text": c.String("text"),
					}))
				},
			},
			{
				Name:  "chord",
				Usage: "send a modifier+key chord",
				Flags: []cli.Flag{
					sessionFlag(),
					&cli.StringFlag{Name: "modifier", Required: true},
					&cli.StringFlag{Name: "key", Required: true},
				},
				Action: func(c *cli.Context) error {
					path := fmt.Sprintf("/session/%s/chord", c.String("session"))
					return printResponse(newClient(c).post(path, map[string]any{
						"modifier": c.String("modifier"),
						"key":      c.String("key"),
					}))
				},
			},
			{
				Name:  "click",
				Usage: "click an element",
				Flags: []cli.Flag{
					sessionFlag(),
					&cli.StringFlag{Name: "element", Required: true},
					&cli.IntFlag{Name: "button", Value: 0},
					&cli.IntFlag{Name: "repeat", Value: 1},
					&cli.StringFlag{Name: "align"},
				},
				Action: func(c *cli.Context) error {
					path := fmt.Sprintf("/session/%s/element/%s/click",
						c.String("session"), c.String("element"))
					return printResponse(newClient(c).post(path, map[string]any{
						"button":    c.Int("button"),
						"repeat":    c.Int("repeat"),
						"alignment": c.String("align"),
					}))
				},
			},
			{
				Name:  "actions",
				Usage: "replay an action sequence from a JSON file",
				Flags: []cli.Flag{
					sessionFlag(),
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true},
				},
				Action: func(c *cli.Context) error {
					raw, err := os.ReadFile(c.String("file"))
					if err != nil {
						return fmt.Errorf("read actions file: %w", err)
					}
					var payload map[string]any
					if err := json.Unmarshal(raw, &payload); err != nil {
						return fmt.Errorf("parse actions file: %w", err)
					}
					path := fmt.Sprintf("/session/%s/actions", c.String("session"))
					return printResponse(newClient(c).post(path, payload))
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func sessionFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "session",
		Usage:    "session id",
		Required: true,
		EnvVars:  []string{"DRIVER_SESSION"},
	}
}

type client struct {
	baseURL    string
	httpClient *http.Client
}

func newClient(c *cli.Context) *client {
	return &client{
		baseURL: c.String("server"),
		httpClient: &http.Client{
			// action sequences block server-side for their full duration
			Timeout: 120 * time.Second,
		},
	}
}

func (c *client) get(path string) (map[string]any, error) {
	return c.do(http.MethodGet, path, nil)
}

func (c *client) post(path string, body any) (map[string]any, error) {
	return c.do(http.MethodPost, path, body)
}

func (c *client) delete(path string) (map[string]any, error) {
	return c.do(http.MethodDelete, path, nil)
}

func (c *client) do(method, path string, body any) (map[string]any, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	out := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("decode response (%s): %w", resp.Status, err)
		}
	}
	if resp.StatusCode >= 400 {
		return out, fmt.Errorf("server returned %s", resp.Status)
	}
	return out, nil
}

func printResponse(resp map[string]any, err error) error {
	if resp != nil {
		pretty, marshalErr := json.MarshalIndent(resp, "", "  ")
		if marshalErr == nil {
			fmt.Println(string(pretty))
		}
	}
	return err
}
