package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/df07/go-tiled-pathtracer/pkg/scene"
)

// ListScenes prints the built-in scenes and the scene files found in the
// scenes directory.
func ListScenes(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	groups, err := scene.ListAllScenes(ctx.String("scenes-dir"))
	if err != nil {
		return err
	}
	return writeSceneTable(os.Stdout, groups)
}

func writeSceneTable(w io.Writer, groups []scene.SceneGroup) error {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Group", "ID", "Name", "Emissive", "Description"})
	for _, group := range groups {
		for _, info := range group.Scenes {
			table.Append([]string{
				group.Name,
				info.ID,
				info.DisplayName,
				fmt.Sprintf("%t", info.Emissive),
				info.Description,
			})
		}
	}
	table.Render()

	_, err := buf.WriteTo(w)
	return err
}

// resolveScene finds a scene by built-in id, by "file:<name>" id within
// scenesDir, or by path to a YAML file.
func resolveScene(name, scenesDir string) (scene.SceneInfo, error) {
	if info, ok := scene.LookupBuiltinScene(name); ok {
		return info, nil
	}

	if _, err := os.Stat(name); err == nil {
		return scene.ParseSceneFileMetadata(name)
	}

	files, err := scene.ListSceneFiles(scenesDir)
	if err != nil {
		return scene.SceneInfo{}, err
	}
	for _, info := range files {
		if info.ID == name || info.ID == "file:"+name {
			return info, nil
		}
	}
	return scene.SceneInfo{}, errors.Errorf("unknown scene %q; run the scenes command for a list", name)
}
