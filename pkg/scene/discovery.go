package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/voxdump/go-orbit-tracer/pkg/renderer"
)

const builtinGroup = "Built-in Scenes"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Identifier accepted by Load
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin", "yaml" or "mesh"
	FilePath    string `json:"filePath"`    // Path to the scene file (file types only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

// Load resolves a scene identifier: a built-in name, a YAML scene file,
// or a bare model file staged on the default ground.
func Load(id string, cameraOverrides ...renderer.CameraConfig) (*Scene, error) {
	switch id {
	case "", "orbit", "default":
		return NewOrbitScene(cameraOverrides...), nil
	case "cornell", "cornell-box":
		return NewCornellScene(cameraOverrides...), nil
	case "spheregrid", "sphere-grid":
		return NewSphereGridScene(cameraOverrides...), nil
	}

	switch strings.ToLower(filepath.Ext(id)) {
	case ".yaml", ".yml":
		return LoadYAMLScene(id, cameraOverrides...)
	case ".obj", ".stl", ".ply":
		return NewMeshScene(id, cameraOverrides...)
	}

	return nil, errors.Errorf("unknown scene %q", id)
}

// BuiltinScenes lists the scenes compiled into the binary
func BuiltinScenes() []SceneInfo {
	return []SceneInfo{
		{
			ID:          "orbit",
			Name:        "Orbit",
			DisplayName: "Orbit",
			Description: "Glossy centerpiece with satellite spheres, made for the orbiting camera",
			Group:       builtinGroup,
			Type:        "builtin",
		},
		{
			ID:          "cornell",
			Name:        "Cornell Box",
			DisplayName: "Cornell Box",
			Description: "Classic box with colored walls, a ceiling light and two spheres",
			Group:       builtinGroup,
			Type:        "builtin",
		},
		{
			ID:          "spheregrid",
			Name:        "Sphere Grid",
			DisplayName: "Sphere Grid",
			Description: "Grid of small spheres sweeping hue and chroma",
			Group:       builtinGroup,
			Type:        "builtin",
		},
	}
}

// ListFileScenes scans a directory for YAML scene files and model files.
// Unreadable files are skipped; they still fail with a real error when
// actually loaded.
func ListFileScenes(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		// No scene directory is fine, there is just nothing to list
		return []SceneInfo{}, nil
	}

	var scenes []SceneInfo
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		files, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to scan scene directory %s", dir)
		}
		for _, path := range files {
			info, err := parseYAMLMetadata(path)
			if err != nil {
				continue
			}
			scenes = append(scenes, info)
		}
	}

	for _, pattern := range []string{"*.obj", "*.stl", "*.ply"} {
		files, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to scan scene directory %s", dir)
		}
		for _, path := range files {
			base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			scenes = append(scenes, SceneInfo{
				ID:          path,
				Name:        titleCase(base),
				DisplayName: titleCase(base),
				Description: fmt.Sprintf("%s model on the default ground", strings.ToUpper(strings.TrimPrefix(filepath.Ext(path), "."))),
				Group:       "Model Files",
				Type:        "mesh",
				FilePath:    path,
			})
		}
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// parseYAMLMetadata reads just enough of a scene file to describe it
func parseYAMLMetadata(path string) (SceneInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SceneInfo{}, err
	}

	var file sceneFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return SceneInfo{}, err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name := file.Name
	if name == "" {
		name = titleCase(base)
	}
	group := file.Group
	if group == "" {
		group = "Scene Files"
	}

	return SceneInfo{
		ID:          path,
		Name:        name,
		DisplayName: name,
		Description: file.Description,
		Group:       group,
		Type:        "yaml",
		FilePath:    path,
	}, nil
}

// ListAllScenes returns built-in and file scenes, grouped with built-ins
// first and the remaining groups in alphabetical order
func ListAllScenes(dir string) (ScenesResponse, error) {
	var response ScenesResponse

	fileScenes, err := ListFileScenes(dir)
	if err != nil {
		return response, err
	}

	allScenes := append(BuiltinScenes(), fileScenes...)

	groupMap := make(map[string][]SceneInfo)
	for _, info := range allScenes {
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}

	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtinGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if builtins, exists := groupMap[builtinGroup]; exists {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   builtinGroup,
			Scenes: builtins,
		})
	}

	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

// titleCase converts a filename-style string to title case
// e.g., "teapot-on-stand" -> "Teapot On Stand"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
