// Copyright 2026 tarcrash project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package main

import (
	"embed"
	"io/fs"
	"os"
	"path"

	assetfs "github.com/elazarl/go-bindata-assetfs"
)

//go:embed assets
var assets embed.FS

// Asset, AssetDir and AssetInfo follow the go-bindata accessor signatures
// over the embedded assets dir.

func Asset(name string) ([]byte, error) {
	return assets.ReadFile(path.Clean(name))
}

func AssetDir(name string) ([]string, error) {
	entries, err := assets.ReadDir(path.Clean(name))
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

func AssetInfo(name string) (os.FileInfo, error) {
	return fs.Stat(assets, path.Clean(name))
}

func assetFS() *assetfs.AssetFS {
	return &assetfs.AssetFS{Asset: Asset, AssetDir: AssetDir, AssetInfo: AssetInfo, Prefix: "assets"}
}
