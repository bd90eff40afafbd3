package services

import (
	"sort"

	"finspace/internal/models"
)

// ItemNode is a budget item with its children attached for presentation.
type ItemNode struct {
	models.BudgetItem
	Children []models.BudgetItem `json:"children"`
}

// BuildItemTree reshapes a flat, unordered item list into the two-level tree
// served to clients: parents with their children nested, standalone items
// alongside them. The top level is ordered by display_order ascending; ties
// keep input order. Children keep the relative order they had in the input.
//
// A child whose parent_id does not resolve to a parent in the input is
// dropped from the tree rather than reported as an error.
func BuildItemTree(items []models.BudgetItem) []ItemNode {
	parentIdx := make(map[uint]int)
	children := make(map[uint][]models.BudgetItem)
	top := make([]ItemNode, 0, len(items))

	for _, item := range items {
		switch {
		case item.IsParent:
			parentIdx[item.ID] = len(top)
			top = append(top, ItemNode{BudgetItem: item, Children: []models.BudgetItem{}})
		case item.ParentID != nil:
			children[*item.ParentID] = append(children[*item.ParentID], item)
		default:
			top = append(top, ItemNode{BudgetItem: item, Children: []models.BudgetItem{}})
		}
	}

	for parentID, kids := range children {
		if idx, ok := parentIdx[parentID]; ok {
			top[idx].Children = kids
		}
	}

	sort.SliceStable(top, func(i, j int) bool {
		return top[i].DisplayOrder < top[j].DisplayOrder
	})

	return top
}
