package loader

import (
	"fmt"
	"strings"
	"time"
)

// FileEntry is the payload of a directory-tree item.
type FileEntry struct {
	Name    string
	Path    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// Lines renders the base name, with a trailing slash for directories.
func (f FileEntry) Lines() []string {
	if f.IsDir {
		return []string{f.Name + "/"}
	}
	return []string{f.Name}
}

// RowHeight is always one row.
func (f FileEntry) RowHeight() int { return 1 }

// CopyText is the full path.
func (f FileEntry) CopyText() string { return f.Path }

// Describe returns a markdown summary for the preview pane.
func (f FileEntry) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", f.Name)
	fmt.Fprintf(&b, "- **Path:** `%s`\n", f.Path)
	if f.IsDir {
		b.WriteString("- **Type:** directory\n")
	} else {
		fmt.Fprintf(&b, "- **Size:** %s\n", formatSize(f.Size))
	}
	if !f.ModTime.IsZero() {
		fmt.Fprintf(&b, "- **Modified:** %s\n", f.ModTime.Format(time.DateTime))
	}
	return b.String()
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
