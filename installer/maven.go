package installer

import (
	"context"
	"path/filepath"

	"github.com/aexvir/bootstrap"
)

// 3.2.5 is the most recent version of Maven compatible with Java 6.
const mavenVersion = "3.2.5"

// Maven downloads and installs Apache Maven, registering the mvn
// executable on the search path. A no-op when mvn is already
// installed.
func Maven(ctx context.Context, env *bootstrap.Env, opts ...Option) error {
	conf := newconf(opts...)

	dir := "apache-maven-" + mavenVersion

	rec := Recipe{
		Command:     "mvn",
		URL:         "http://mirrors.sonic.net/apache/maven/maven-3/{{.Version}}/binaries/{{.Package}}",
		Template:    newTemplate("mvn", dir+"-bin.tar.gz", mavenVersion),
		DownloadDir: conf.downloadDir,
		InstallDir:  conf.installDir,
		Locate: func(installDir string) (string, error) {
			return filepath.Join(installDir, dir, "bin", "mvn"), nil
		},
		Register: true,
	}

	_, err := Install(ctx, env, rec)
	return err
}
