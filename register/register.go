// Package register adds the playground server to an MCP client
// configuration file.
package register

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
)

// ErrUsage is returned when the command line cannot be understood.
var ErrUsage = errors.New("invalid register arguments")

type serverEntry struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// request is a parsed register command line.
type request struct {
	scope      string // "project" or "user"
	directory  string // project scope only
	serverArgs []string
}

// Run executes the register subcommand. args are the arguments after
// "register". For project scope the server is started with --project
// pointing at the registered directory unless the forwarded arguments name
// a project themselves.
func Run(serverName string, args []string, stdout io.Writer) error {
	req, err := parseArgs(args)
	if err != nil {
		return err
	}

	binaryPath, err := detectBinaryPath()
	if err != nil {
		return err
	}

	configPath, err := resolveConfigPath(req.scope, req.directory)
	if err != nil {
		return err
	}

	serverArgs := req.serverArgs
	if req.scope == "project" && !hasProjectFlag(serverArgs) {
		absDir, err := filepath.Abs(req.directory)
		if err != nil {
			return fmt.Errorf("resolving directory %s: %w", req.directory, err)
		}
		serverArgs = append([]string{"--project", absDir}, serverArgs...)
	}

	if err := writeConfig(configPath, serverName, buildEntry(binaryPath, serverArgs)); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Registered %q in %s\n", serverName, configPath)
	return nil
}

// Usage writes the register command synopsis.
func Usage(w io.Writer) {
	binaryName := filepath.Base(os.Args[0])
	fmt.Fprintf(w, "Usage:\n")
	fmt.Fprintf(w, "  %s register project [directory]  # → <directory>/.mcp.json, imports <directory>\n", binaryName)
	fmt.Fprintf(w, "  %s register user                 # → ~/.claude.json, built-in sample project\n", binaryName)
	fmt.Fprintf(w, "  %s register project . -- --watch # forward args to server\n", binaryName)
}

// DeriveServerName strips .exe and -mcp from the binary name.
func DeriveServerName(binaryPath string) string {
	name := filepath.Base(binaryPath)
	name = strings.TrimSuffix(name, ".exe")
	name = strings.TrimSuffix(name, "-mcp")
	return name
}

func parseArgs(args []string) (request, error) {
	if len(args) == 0 {
		return request{}, fmt.Errorf("%w: missing scope", ErrUsage)
	}
	req := request{scope: args[0]}
	rest := args[1:]

	if sep := slices.Index(rest, "--"); sep >= 0 {
		req.serverArgs = rest[sep+1:]
		rest = rest[:sep]
	}

	switch req.scope {
	case "project":
		req.directory = "."
		if len(rest) > 1 {
			return request{}, fmt.Errorf("%w: more than one directory", ErrUsage)
		}
		if len(rest) == 1 {
			req.directory = rest[0]
		}
	case "user":
		if len(rest) > 0 {
			return request{}, fmt.Errorf("%w: user scope takes no directory", ErrUsage)
		}
	default:
		return request{}, fmt.Errorf("%w: unknown scope %q (must be \"project\" or \"user\")", ErrUsage, req.scope)
	}
	return req, nil
}

func hasProjectFlag(args []string) bool {
	for _, arg := range args {
		if arg == "--project" || arg == "-project" ||
			strings.HasPrefix(arg, "--project=") || strings.HasPrefix(arg, "-project=") {
			return true
		}
	}
	return false
}

func detectBinaryPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("getting executable path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks for %s: %w", exe, err)
	}
	return resolved, nil
}

func resolveConfigPath(scope string, directory string) (string, error) {
	if scope == "project" {
		absDir, err := filepath.Abs(directory)
		if err != nil {
			return "", fmt.Errorf("resolving directory %s: %w", directory, err)
		}
		return filepath.Join(absDir, ".mcp.json"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".claude.json"), nil
}

func buildEntry(binaryPath string, serverArgs []string) serverEntry {
	if runtime.GOOS == "windows" {
		return serverEntry{
			Command: "cmd",
			Args:    append([]string{"/C", binaryPath}, serverArgs...),
		}
	}
	return serverEntry{Command: binaryPath, Args: serverArgs}
}

// writeConfig adds or replaces one server entry and keeps everything else
// in the file. The file is replaced atomically.
func writeConfig(configPath string, serverName string, entry serverEntry) error {
	config := map[string]any{
		"mcpServers": map[string]any{},
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("parsing existing config %s: %w", configPath, err)
		}
	}

	servers, ok := config["mcpServers"]
	if !ok {
		servers = map[string]any{}
		config["mcpServers"] = servers
	}
	serversMap, ok := servers.(map[string]any)
	if !ok {
		return fmt.Errorf("mcpServers in %s is not an object", configPath)
	}
	serversMap[serverName] = entry

	output, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	output = append(output, '\n')

	configDir := filepath.Dir(configPath)
	tmpFile, err := os.CreateTemp(configDir, ".mcp-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", configDir, err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(output); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file %s: %w", tmpPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, configPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming %s to %s: %w", tmpPath, configPath, err)
	}
	return nil
}
