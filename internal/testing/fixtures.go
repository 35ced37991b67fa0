package testing

import (
	"github.com/imamik/stackplan/internal/bootstrap"
)

// ProxyCodeFiles are the artifact names in ProxyCodeSource, in the order the
// boot program writes them.
var ProxyCodeFiles = []string{"docker-compose.yml", "nginx.conf"}

// ProxyCodeSource returns a fresh in-memory proxy code artifact set.
func ProxyCodeSource() bootstrap.MapSource {
	return bootstrap.MapSource{
		"nginx.conf":         []byte("rtmp {\n  server {\n    listen 1935;\n  }\n}\n"),
		"docker-compose.yml": []byte("services:\n  rtsp:\n    image: bluenviron/mediamtx\n    network_mode: host\n"),
	}
}
