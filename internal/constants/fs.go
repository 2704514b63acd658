package constants

import "os"

const (
	// DefaultFilePermissions sets the permissions for the configuration file: (rw-------).
	// The file stores the account password and OAuth tokens, so only the owner may read it.
	DefaultFilePermissions os.FileMode = 0o600

	// DefaultFolderPermissions sets the default permissions for folders: (rwx------).
	DefaultFolderPermissions os.FileMode = 0o700
)
