package version

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	RepoUser = "owui-tools"
	RepoName = "chatbak"
	RepoUrl  = "https://github.com/owui-tools/chatbak"
	Package  = "chatbak"
)

type PackageInfo struct {
	PackageName        string
	RepoUrl            string
	RepoUser           string
	RepoName           string
	PackageVersion     string
	PackageCommit      string
	PackageReleaseDate string
}

// GetPackageInfo returns a struct with information about the current package
func GetPackageInfo() PackageInfo {
	return PackageInfo{
		PackageName:        Package,
		RepoUrl:            RepoUrl,
		RepoUser:           RepoUser,
		RepoName:           RepoName,
		PackageVersion:     Version,
		PackageCommit:      Commit,
		PackageReleaseDate: Date,
	}
}
