package scene

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

// Scene source types
const (
	TypeBuiltin = "builtin"
	TypeFile    = "yaml"
)

const builtinGroup = "Built-in Scenes"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string // Unique identifier
	Name        string // Scene name
	DisplayName string // Display name, including the variant
	Description string // Optional description
	Group       string // Grouping category
	Type        string // TypeBuiltin or TypeFile
	FilePath    string // Path to the scene file (file type only)
	Variant     string // Variant name (optional)

	// Emissive scenes are lit by their own light sources and should be
	// rendered with emission accumulation enabled.
	Emissive bool
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string
	Scenes []SceneInfo
}

var builtinScenes = []SceneInfo{
	{
		ID:          "default",
		Name:        "Default Scene",
		DisplayName: "Default Scene",
		Description: "Diffuse sphere resting on a huge ground sphere",
	},
	{
		ID:          "cornell",
		Name:        "Cornell Box",
		DisplayName: "Cornell Box",
		Description: "Quad Cornell box with a glass and a mirror sphere, lit by a ceiling panel",
		Emissive:    true,
	},
	{
		ID:          "spheres",
		Name:        "Sphere Field",
		DisplayName: "Sphere Field",
		Description: "Random spheres on a checkered ground with three feature spheres",
	},
}

func init() {
	for i := range builtinScenes {
		builtinScenes[i].Group = builtinGroup
		builtinScenes[i].Type = TypeBuiltin
	}
}

// ListBuiltinScenes returns the scenes that can be created with NewBuiltinScene
func ListBuiltinScenes() []SceneInfo {
	out := make([]SceneInfo, len(builtinScenes))
	copy(out, builtinScenes)
	return out
}

// LookupBuiltinScene returns the metadata of a built-in scene
func LookupBuiltinScene(id string) (SceneInfo, bool) {
	for _, info := range builtinScenes {
		if info.ID == id {
			return info, true
		}
	}
	return SceneInfo{}, false
}

// NewBuiltinScene creates and builds a built-in scene. The seed only affects
// scenes with a randomized layout.
func NewBuiltinScene(id string, aspect float64, seed int64) (*Scene, error) {
	switch id {
	case "default":
		return NewDefaultScene(aspect)
	case "cornell":
		return NewCornellScene(aspect)
	case "spheres":
		return NewSphereGridScene(aspect, seed)
	default:
		return nil, errors.Wrapf(core.ErrInvalidArgument, "unknown scene %q", id)
	}
}

// NewSceneFromInfo creates a discovered scene, built-in or file based
func NewSceneFromInfo(info SceneInfo, aspect float64, seed int64) (*Scene, error) {
	if info.Type == TypeFile {
		return NewFileScene(info.FilePath, aspect)
	}
	return NewBuiltinScene(info.ID, aspect, seed)
}

// finish builds a populated scene, destroying it if population or the build failed
func finish(s *Scene, err error) (*Scene, error) {
	if err == nil {
		err = s.Build()
	}
	if err != nil {
		s.Destroy()
		return nil, err
	}
	return s, nil
}

// ListSceneFiles scans dir for YAML scene descriptions. A missing directory
// yields an empty list.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan scenes directory")
		}
		files = append(files, matches...)
	}

	scenes := make([]SceneInfo, 0, len(files))
	for _, filePath := range files {
		info, err := ParseSceneFileMetadata(filePath)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse metadata for %s", filePath)
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes, nil
}

// ParseSceneFileMetadata extracts metadata from the header comments of a
// scene file:
//
//	# Scene: Cornell Box
//	# Variant: Empty Room
//	# Description: Classic Cornell box with no objects
//	# Group: Cornell Variants
//	# Emissive: true
func ParseSceneFileMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	info := SceneInfo{
		ID:       "file:" + nameWithoutExt,
		Name:     titleCase(nameWithoutExt),
		Group:    "Scene Files",
		Type:     TypeFile,
		FilePath: filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		// Unreadable files keep the fallback values
		info.DisplayName = info.Name
		return info, nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Stop parsing at first non-comment line
		if !strings.HasPrefix(line, "#") {
			break
		}

		key, value, ok := strings.Cut(strings.TrimSpace(strings.TrimPrefix(line, "#")), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.TrimSpace(key) {
		case "Scene":
			info.Name = value
		case "Variant":
			info.Variant = value
		case "Description":
			info.Description = value
		case "Group":
			info.Group = value
		case "Emissive":
			info.Emissive = value == "true"
		}
	}

	if info.Variant != "" {
		info.DisplayName = info.Name + " - " + info.Variant
	} else {
		info.DisplayName = info.Name
	}

	return info, scanner.Err()
}

// ListAllScenes returns built-in scenes followed by the scene files in dir,
// grouped by category. The built-in group comes first, then the others alphabetically.
func ListAllScenes(dir string) ([]SceneGroup, error) {
	files, err := ListSceneFiles(dir)
	if err != nil {
		return nil, err
	}

	groupMap := make(map[string][]SceneInfo)
	for _, info := range append(ListBuiltinScenes(), files...) {
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}

	var groupNames []string
	for name := range groupMap {
		if name != builtinGroup {
			groupNames = append(groupNames, name)
		}
	}
	sort.Strings(groupNames)

	groups := []SceneGroup{{Name: builtinGroup, Scenes: groupMap[builtinGroup]}}
	for _, name := range groupNames {
		groups = append(groups, SceneGroup{Name: name, Scenes: groupMap[name]})
	}
	return groups, nil
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
