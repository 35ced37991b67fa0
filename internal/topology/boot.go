package topology

import (
	"github.com/imamik/stackplan/internal/bootstrap"
	"github.com/imamik/stackplan/internal/config"
)

// ProxyCodeSourceDir is the artifact source directory shipped to the server.
// The artifact source is rooted at the proxy code itself.
const ProxyCodeSourceDir = "."

// ServerBootSteps returns the stream server's boot steps: system update,
// container runtime, compose, then the proxy code.
func ServerBootSteps(s config.ServerConfig) []bootstrap.Step {
	return []bootstrap.Step{
		bootstrap.Command("sudo yum update -y"),
		bootstrap.Command("sudo yum install git docker jq -y"),
		bootstrap.Command("sudo service docker start"),
		bootstrap.Command("sudo usermod -a -G docker " + s.User),
		bootstrap.Command("sudo curl -L " + s.ComposeURL + " -o /usr/local/bin/docker-compose"),
		bootstrap.Command("sudo chmod +x /usr/local/bin/docker-compose"),
		bootstrap.Command("mv /usr/local/bin/docker-compose /bin/docker-compose"),
		bootstrap.Directory(s.ProxyCodeDir, ProxyCodeSourceDir),
	}
}
