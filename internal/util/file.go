package util

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
)

// Example output for "My Report.PDF" with id "V1StGXR8": "V1StGXR8_my-report.pdf"
func AddUniquePrefixToFileName(uniqueID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))

	name := slug.Make(base)
	if name == "" {
		name = "file"
	}

	return fmt.Sprintf("%s_%s%s", uniqueID, name, ext)
}

// ToObjectKey joins the destination folder with the file name using forward slashes.
func ToObjectKey(folder, fileName string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return fileName
	}
	return path.Join(folder, fileName)
}
