package setup

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

const ServerName = "ask-mcp"

type Entry struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// Find lists the mcp.json and .cursor/mcp.json files in dir and all of its
// parents, nearest first.
func Find(dir string) []string {
	var result []string

	for {
		for _, name := range []string{"mcp.json", filepath.Join(".cursor", "mcp.json")} {
			path := filepath.Join(dir, name)

			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				result = append(result, path)
			}
		}

		parent := filepath.Dir(dir)

		if parent == dir {
			break
		}

		dir = parent
	}

	return result
}

// Update registers entry under name in the mcpServers section of the client
// configuration at path, creating the file if needed. Other servers and
// unknown keys are preserved. The previous entry is returned if there was one.
func Update(path, name string, entry Entry) (*Entry, error) {
	config := map[string]any{}

	data, err := os.ReadFile(path)

	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, err
		}

		if config == nil {
			config = map[string]any{}
		}
	}

	servers, ok := config["mcpServers"].(map[string]any)

	if !ok {
		servers = map[string]any{}
	}

	var previous *Entry

	server, ok := servers[name].(map[string]any)

	if ok {
		previous = decodeEntry(server)
	} else {
		server = map[string]any{}
	}

	server["command"] = entry.Command
	server["args"] = entry.Args

	servers[name] = server
	config["mcpServers"] = servers

	result, err := json.MarshalIndent(config, "", "  ")

	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	if err := os.WriteFile(path, append(result, '\n'), 0644); err != nil {
		return nil, err
	}

	return previous, nil
}

func decodeEntry(val map[string]any) *Entry {
	data, _ := json.Marshal(val)

	var entry Entry
	json.Unmarshal(data, &entry)

	return &entry
}
