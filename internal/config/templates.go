package config

import (
	"fmt"
	"os"
	"strings"
)

// Template returns a starter TOML config for the given role, suitable for
// writing to disk and editing.
func Template(role string) (string, error) {
	switch Role(strings.ToLower(strings.TrimSpace(role))) {
	case RoleSend:
		return sendTemplate, nil
	case RoleReceive:
		return receiveTemplate, nil
	case RoleServe:
		return serveTemplate, nil
	case RoleRequest:
		return requestTemplate, nil
	default:
		return "", fmt.Errorf("config: unknown role %q", role)
	}
}

// WriteTemplate writes the given role's template to path, refusing to
// clobber an existing file unless overwrite is set.
func WriteTemplate(path, role string, overwrite bool) error {
	template, err := Template(role)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config: already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const sendTemplate = `role = "send"
addr = "localhost:9500"
timeout_seconds = 60
multi_image = false
events_mode = false
image_name = "image"
admin_addr = ":9400"

[security]
enabled = false
`

const receiveTemplate = `role = "receive"
addr = ":9500"
timeout_seconds = 60
multi_image = false
events_mode = false
admin_addr = ":9401"

[security]
enabled = false
`

const serveTemplate = `role = "serve"
addr = ":9500"
timeout_seconds = 60
multi_image = false
image_name = "image"
admin_addr = ":9402"

[security]
enabled = false
`

const requestTemplate = `role = "request"
addr = "localhost:9500"
timeout_seconds = 60
multi_image = false
admin_addr = ":9403"

[security]
enabled = false
`
