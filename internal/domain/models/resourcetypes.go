// internal/domain/models/resourcetypes.go
package models

// Canonical resource type identifiers.
//
// These values are stored in the database in the Resource.ResourceType field.
// This slice is the single source of truth for validation, schema setup, and
// the resource-type facet; any new type must be added here to be valid.
const (
	ResourceTypeTutorial      = "Tutorial"
	ResourceTypeResearchPaper = "Research Paper"
	ResourceTypeGitHubRepo    = "GitHub Repository"
	ResourceTypeDocumentation = "Documentation"
	ResourceTypeCourse        = "Course"
	ResourceTypeBlogPost      = "Blog Post"
	ResourceTypeBook          = "Book"
	ResourceTypeVideo         = "Video"
	ResourceTypeTool          = "Tool"
)

// ResourceTypes is the full set of allowed resource type identifiers.
var ResourceTypes = []string{
	ResourceTypeTutorial,
	ResourceTypeResearchPaper,
	ResourceTypeGitHubRepo,
	ResourceTypeDocumentation,
	ResourceTypeCourse,
	ResourceTypeBlogPost,
	ResourceTypeBook,
	ResourceTypeVideo,
	ResourceTypeTool,
}

// IsValidResourceType reports whether t is an allowed resource type.
func IsValidResourceType(t string) bool {
	for _, v := range ResourceTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Categories is the authoritative set of catalog categories.
//
// Historically different call sites carried their own category vocabularies
// and drifted apart; validation, schema setup, and the category facet must
// all consume this one list. The category facet unions this set into the
// aggregated values so empty categories stay discoverable.
var Categories = []string{
	CategoryMachineLearning,
	CategoryDeepLearning,
	CategoryNLP,
	CategoryComputerVision,
	CategoryDataScience,
	CategoryNeuralNetworks,
	CategoryAI,
}

// Canonical category identifiers.
const (
	CategoryMachineLearning = "Machine Learning"
	CategoryDeepLearning    = "Deep Learning"
	CategoryNLP             = "Natural Language Processing"
	CategoryComputerVision  = "Computer Vision"
	CategoryDataScience     = "Data Science"
	CategoryNeuralNetworks  = "Neural Networks"
	CategoryAI              = "Artificial Intelligence"
)

// IsValidCategory reports whether c is an allowed category.
func IsValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}
