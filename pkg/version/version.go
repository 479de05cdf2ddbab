package version

// Version is the current tv version. It is a var so release builds can set it:
//
//	go build -ldflags "-X github.com/vanderheijden86/treeview/pkg/version.Version=v0.2.0"
var Version = "v0.1.0"

// String returns the version line printed by tv --version.
func String() string {
	return "tv " + Version
}
