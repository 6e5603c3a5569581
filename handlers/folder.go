package handlers

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/facette/natsort"

	"photodedup/lightroom"
)

const pickDialogTimeout = 120 * time.Second

// pickDirectory shells out to the platform's native folder dialog. It is
// replaceable for tests and never hard-fails; "" means nothing was picked.
var pickDirectory = func(ctx context.Context) string {
	switch runtime.GOOS {
	case "darwin":
		script := `tell application "System Events" to activate
set chosenFolder to choose folder with prompt "Select photo folder"
return POSIX path of chosenFolder`
		out, err := exec.CommandContext(ctx, "osascript", "-e", script).Output()
		if err == nil {
			return strings.TrimSuffix(strings.TrimSpace(string(out)), "/")
		}
	case "windows":
		script := `[System.Reflection.Assembly]::LoadWithPartialName("System.windows.forms") | Out-Null;` +
			`$dialog = New-Object System.Windows.Forms.FolderBrowserDialog;` +
			`$dialog.Description = "Select photo folder";` +
			`$result = $dialog.ShowDialog();` +
			`if ($result -eq "OK") { $dialog.SelectedPath }`
		out, err := exec.CommandContext(ctx, "powershell", "-Command", script).Output()
		if err == nil {
			return strings.TrimSpace(string(out))
		}
	default:
		out, err := exec.CommandContext(ctx, "zenity", "--file-selection", "--directory", "--title=Select photo folder").Output()
		if err == nil {
			return strings.TrimSpace(string(out))
		}
	}
	return ""
}

// FolderHandler provides the folder-picker dialog and the directory
// browser backing its fallback UI.
type FolderHandler struct{}

// PickFolder handles GET /api/pick-folder. Best-effort: a missing or
// failing native dialog reports fallback rather than an error.
func (h *FolderHandler) PickFolder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pickDialogTimeout)
	defer cancel()

	if folder := pickDirectory(ctx); folder != "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{"path": folder})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"path":     nil,
		"fallback": true,
		"message":  "folder dialog unavailable",
	})
}

type browseEntry struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir"`
	Size  int64  `json:"size"`
}

type browseListing struct {
	Path    string        `json:"path"`
	Parent  string        `json:"parent,omitempty"`
	Entries []browseEntry `json:"entries"`
}

// Browse handles GET /api/browse?path=/some/dir, the manual fallback when
// no native picker is available. Directories come first, each section in
// natural filename order.
func (h *FolderHandler) Browse(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			path = string(os.PathSeparator)
		} else {
			path = home
		}
	}
	path = filepath.Clean(path)

	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			WriteAPIError(w, http.StatusNotFound, "not_found", "directory does not exist: "+path)
		} else if os.IsPermission(err) {
			WriteAPIError(w, http.StatusForbidden, "forbidden", "directory is not readable: "+path)
		} else {
			log.Printf("handlers: failed to read directory %s: %v", path, err)
			WriteAPIError(w, http.StatusInternalServerError, "read_failed", "failed to read directory")
		}
		return
	}

	listing := browseListing{Path: path, Entries: []browseEntry{}}
	if parent := filepath.Dir(path); parent != path {
		listing.Parent = parent
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		listing.Entries = append(listing.Entries, browseEntry{
			Name:  name,
			Path:  filepath.Join(path, name),
			IsDir: entry.IsDir(),
			Size:  info.Size(),
		})
	}

	sort.SliceStable(listing.Entries, func(i, j int) bool {
		a, b := listing.Entries[i], listing.Entries[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return natsort.Compare(a.Name, b.Name)
	})

	writeJSON(w, http.StatusOK, listing)
}

// Catalogs handles GET /api/lightroom/catalogs, a best-effort system-wide
// search for Lightroom catalog files. Informational only; not part of the
// pipeline.
func (h *FolderHandler) Catalogs(w http.ResponseWriter, r *http.Request) {
	catalogs := lightroom.FindCatalogs(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"catalogs": catalogs,
		"total":    len(catalogs),
	})
}
