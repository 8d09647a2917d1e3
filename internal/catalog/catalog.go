// Package catalog derives the public, filtered and paginated view of the
// solutions collection.
package catalog

import (
	"sort"
	"strings"

	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/model"
	"github.com/FarrukhInseyab/GO-AI-HUB-PORTAL-sub000/internal/review"
)

// Sort orders
const (
	SortNewest = "newest"
	SortOldest = "oldest"
	SortName   = "name"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// Query describes one catalog request. Zero values mean "no filter".
type Query struct {
	Search           string   `query:"search"`
	Industries       []string `query:"industry"`
	TechCategories   []string `query:"tech"`
	DeploymentStatus string   `query:"deployment_status"`
	ArabicOnly       bool     `query:"arabic"`
	Sort             string   `query:"sort"`
	Page             int      `query:"page"`
	PageSize         int      `query:"page_size"`
}

// Page is one page of catalog results.
type Page struct {
	Items      []model.Solution `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

func (q Query) normalized() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	switch {
	case q.PageSize <= 0:
		q.PageSize = DefaultPageSize
	case q.PageSize > MaxPageSize:
		q.PageSize = MaxPageSize
	}
	switch q.Sort {
	case SortOldest, SortName:
	default:
		q.Sort = SortNewest
	}
	q.Search = strings.ToLower(strings.TrimSpace(q.Search))
	// repeated params and comma lists are both accepted
	q.Industries = model.NormalizeToStringArray(strings.Join(q.Industries, ","))
	q.TechCategories = model.NormalizeToStringArray(strings.Join(q.TechCategories, ","))
	q.DeploymentStatus = strings.TrimSpace(q.DeploymentStatus)
	return q
}

// Apply filters solutions to the catalog-visible ones matching q, sorts
// them and cuts out the requested page. The input slice is not modified.
func Apply(solutions []model.Solution, q Query) Page {
	q = q.normalized()

	matched := make([]model.Solution, 0, len(solutions))
	for _, s := range solutions {
		if !review.IsCatalogVisible(s.TechApprovalStatus, s.BusinessApprovalStatus) {
			continue
		}
		if q.matches(&s) {
			matched = append(matched, s)
		}
	}

	sortSolutions(matched, q.Sort)

	total := len(matched)
	totalPages := (total + q.PageSize - 1) / q.PageSize
	// compared before multiplying so a huge page number cannot overflow
	start := total
	if q.Page-1 <= total/q.PageSize {
		start = min((q.Page-1)*q.PageSize, total)
	}
	end := start + q.PageSize
	if end > total {
		end = total
	}

	return Page{
		Items:      matched[start:end],
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages,
	}
}

func (q Query) matches(s *model.Solution) bool {
	if q.ArabicOnly && !s.ArabicSupport {
		return false
	}
	if q.DeploymentStatus != "" && !strings.EqualFold(s.DeploymentStatus, q.DeploymentStatus) {
		return false
	}
	if len(q.Industries) > 0 && !overlaps(s.IndustryFocus, q.Industries) {
		return false
	}
	if len(q.TechCategories) > 0 && !overlaps(s.TechCategories, q.TechCategories) {
		return false
	}
	if q.Search == "" {
		return true
	}
	for _, field := range []string{s.SolutionName, s.Summary, s.Description, s.CompanyName} {
		if strings.Contains(strings.ToLower(field), q.Search) {
			return true
		}
	}
	for _, tag := range s.AutoTags {
		if strings.Contains(strings.ToLower(tag), q.Search) {
			return true
		}
	}
	return false
}

// overlaps is true when any wanted value appears in have, ignoring case.
func overlaps(have, wanted []string) bool {
	for _, w := range wanted {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

func sortSolutions(items []model.Solution, order string) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch order {
		case SortName:
			an, bn := strings.ToLower(a.SolutionName), strings.ToLower(b.SolutionName)
			if an != bn {
				return an < bn
			}
			return a.CreatedAt.After(b.CreatedAt)
		case SortOldest:
			return a.CreatedAt.Before(b.CreatedAt)
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})
}
