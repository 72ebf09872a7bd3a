package uriutil

import (
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
)

// URIToPath converts a file:// URI, as found in source map sources emitted
// by some compilers, to a file system path:
//   - file:///home/user -> /home/user
//   - file:///C:/proj/Foo%20Bar -> C:\proj\Foo Bar (on Windows)
//   - file://server/share -> \\server\share (UNC on Windows)
func URIToPath(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Scheme != "file" {
		return uriFallback(uri)
	}

	path := parsed.Path

	// UNC paths carry the server in the host component
	if parsed.Host != "" {
		if runtime.GOOS == "windows" {
			host, _ := url.PathUnescape(parsed.Host)
			pathDecoded, _ := url.PathUnescape(path)
			return `\\` + host + strings.ReplaceAll(pathDecoded, "/", `\`)
		}
		return parsed.Host + path
	}

	decodedPath, err := url.PathUnescape(path)
	if err != nil {
		decodedPath = path
	}

	// Windows URIs look like /C:/proj; strip the leading slash
	if len(decodedPath) >= 3 && decodedPath[0] == '/' && decodedPath[2] == ':' {
		decodedPath = decodedPath[1:]
	}

	return filepath.FromSlash(decodedPath)
}

// uriFallback handles URIs the net/url parser rejects
func uriFallback(uri string) string {
	path := uri
	if strings.HasPrefix(path, "file://") {
		path = path[7:]
	}
	if len(path) >= 3 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path)
}
