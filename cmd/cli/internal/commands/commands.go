package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/wolfeidau/hrroster/internal/client"
	"github.com/wolfeidau/hrroster/internal/command"
	"gopkg.in/yaml.v3"
)

type Globals struct {
	Debug   bool
	Version string
}

// ClientFlags are shared by every command that talks to the server.
type ClientFlags struct {
	Server   string        `help:"Server URL" default:"http://localhost:8080" env:"HRROSTER_SERVER"`
	Timeout  time.Duration `help:"Request timeout" default:"30s"`
	CacheDir string        `help:"Directory for cached GET responses, in memory when empty" env:"HRROSTER_CACHE_DIR"`
	Output   string        `help:"Output format (text, json, yaml)" default:"text" enum:"text,json,yaml" short:"o"`

	out io.Writer
}

func (f *ClientFlags) client(globals *Globals) (*client.Client, error) {
	c, err := client.New(client.Config{
		ServerURL: f.Server,
		Timeout:   f.Timeout,
		CacheDir:  f.CacheDir,
		Debug:     globals.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return c, nil
}

func (f *ClientFlags) writer() io.Writer {
	if f.out != nil {
		return f.out
	}
	return os.Stdout
}

// print writes res in the selected format, text falls back to printText.
func (f *ClientFlags) print(res *command.Result, printText func(w io.Writer) error) error {
	w := f.writer()

	switch f.Output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml":
		flat := make(map[string]any, len(res.Fields)+1)
		for k, v := range res.Fields {
			flat[k] = v
		}
		flat["status"] = string(res.Status)
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(flat)
	default:
		return printText(w)
	}
}

// field decodes a result field into a typed value.
func field(res *command.Result, key string, dst any) error {
	raw, ok := res.Fields[key]
	if !ok {
		return fmt.Errorf("response has no %q field", key)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}
