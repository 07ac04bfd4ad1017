// Package paths provides path resolution helpers for filesbackup: the XDG
// configuration location, ~ expansion, and containment checks used when
// normalising exclude and include directories.
//
// The package wraps github.com/adrg/xdg for cross-platform XDG Base Directory
// compliance. The configuration file lives at:
//
//	<ConfigHome>/filesbackup/config.yaml
//
// FILESBACKUP_CONFIG_DIR overrides the directory, which tests rely on.
package paths
