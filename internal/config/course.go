package config

import "strconv"

// CourseConfig holds per-course overrides from the configuration file.
type CourseConfig struct {
	// SkipTypes lists module item types to leave out of the mirror for
	// this course (e.g. "Quiz", "Discussion"). Matching is exact
	// against the Canvas type tag.
	SkipTypes []string `yaml:"skipTypes,omitempty"`

	// SkipModules lists module names to leave out, matched exactly
	// against the module's display name before sanitization.
	SkipModules []string `yaml:"skipModules,omitempty"`
}

// File represents the structure of the .canvas-mirror configuration file.
type File struct {
	// Courses maps course IDs (as decimal strings) to their overrides.
	Courses map[string]CourseConfig `yaml:"courses,omitempty"`

	// Defaults applies to every course unless overridden.
	Defaults CourseConfig `yaml:"defaults,omitempty"`
}

// CourseConfig returns the merged configuration for a course ID.
func (cf *File) CourseConfig(courseID int64) CourseConfig {
	result := cf.Defaults

	if override, ok := cf.Courses[strconv.FormatInt(courseID, 10)]; ok {
		if len(override.SkipTypes) > 0 {
			result.SkipTypes = override.SkipTypes
		}
		if len(override.SkipModules) > 0 {
			result.SkipModules = override.SkipModules
		}
	}

	return result
}

// SkipsType reports whether the given item type is excluded.
func (cc CourseConfig) SkipsType(itemType string) bool {
	for _, t := range cc.SkipTypes {
		if t == itemType {
			return true
		}
	}
	return false
}

// SkipsModule reports whether the given module name is excluded.
func (cc CourseConfig) SkipsModule(name string) bool {
	for _, m := range cc.SkipModules {
		if m == name {
			return true
		}
	}
	return false
}
