package services

import (
	"testing"

	"finspace/internal/models"
)

func item(id uint, order int) models.BudgetItem {
	return models.BudgetItem{Base: models.Base{ID: id}, Category: "Item", DisplayOrder: order}
}

func parent(id uint, order int) models.BudgetItem {
	i := item(id, order)
	i.IsParent = true
	return i
}

func child(id uint, parentID uint) models.BudgetItem {
	i := item(id, 0)
	i.ParentID = &parentID
	return i
}

func TestBuildItemTree(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		tree := BuildItemTree(nil)
		if len(tree) != 0 {
			t.Errorf("expected empty tree, got %d nodes", len(tree))
		}
	})

	t.Run("standalone_only", func(t *testing.T) {
		tree := BuildItemTree([]models.BudgetItem{item(1, 0), item(2, 1)})
		if len(tree) != 2 {
			t.Fatalf("expected 2 top-level nodes, got %d", len(tree))
		}
		for _, node := range tree {
			if len(node.Children) != 0 {
				t.Errorf("standalone node %d should have no children", node.ID)
			}
		}
	})

	t.Run("parent_with_children", func(t *testing.T) {
		tree := BuildItemTree([]models.BudgetItem{
			parent(1, 0),
			child(2, 1),
			child(3, 1),
			item(4, 1),
		})
		if len(tree) != 2 {
			t.Fatalf("expected 2 top-level nodes, got %d", len(tree))
		}
		if len(tree[0].Children) != 2 {
			t.Errorf("expected 2 children under parent, got %d", len(tree[0].Children))
		}
		if len(tree[1].Children) != 0 {
			t.Errorf("expected standalone item to have no children")
		}
	})

	t.Run("ordered_by_display_order", func(t *testing.T) {
		tree := BuildItemTree([]models.BudgetItem{
			item(1, 2),
			item(2, 0),
			item(3, 1),
		})
		want := []uint{2, 3, 1}
		for i, node := range tree {
			if node.ID != want[i] {
				t.Errorf("position %d: expected item %d, got %d", i, want[i], node.ID)
			}
		}
	})

	t.Run("child_order_preserved", func(t *testing.T) {
		tree := BuildItemTree([]models.BudgetItem{
			parent(1, 0),
			child(5, 1),
			child(3, 1),
			child(4, 1),
		})
		want := []uint{5, 3, 4}
		for i, c := range tree[0].Children {
			if c.ID != want[i] {
				t.Errorf("child position %d: expected %d, got %d", i, want[i], c.ID)
			}
		}
	})

	t.Run("orphan_child_dropped", func(t *testing.T) {
		tree := BuildItemTree([]models.BudgetItem{
			item(1, 0),
			child(2, 99),
		})
		if len(tree) != 1 {
			t.Fatalf("expected orphan to be dropped, got %d nodes", len(tree))
		}
		if tree[0].ID != 1 {
			t.Errorf("expected only the standalone item, got %d", tree[0].ID)
		}
	})

	t.Run("childless_parent_kept", func(t *testing.T) {
		tree := BuildItemTree([]models.BudgetItem{parent(1, 0)})
		if len(tree) != 1 {
			t.Fatalf("expected 1 node, got %d", len(tree))
		}
		if tree[0].Children == nil || len(tree[0].Children) != 0 {
			t.Error("childless parent should have an empty, non-nil children slice")
		}
	})
}
