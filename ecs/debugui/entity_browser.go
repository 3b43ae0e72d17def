package debugui

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/cuberun/ecs"
)

type EntityInfo struct {
	ID             ecs.EntityId
	ArchetypeID    uint32
	ComponentTypes []string
}

func NewEntityBrowserComponent(maxEntitiesPerPage int) EntityBrowserComponent {
	return EntityBrowserComponent{
		maxEntitiesPerPage: maxEntitiesPerPage,
	}
}

// CollectEntities lists every live entity, grouped by archetype in ascending ID order.
func CollectEntities(storage *ecs.Storage) []EntityInfo {
	entities := make([]EntityInfo, 0, 64)

	for archetype := range storage.Archetypes() {
		componentTypes := make([]string, len(archetype.Types()))
		for i, t := range archetype.Types() {
			componentTypes[i] = t.String()
		}

		for entityId := range archetype.Iter() {
			entities = append(entities, EntityInfo{
				ID:             entityId,
				ArchetypeID:    archetype.ID(),
				ComponentTypes: componentTypes,
			})
		}
	}

	return entities
}

// FilterEntities keeps entities whose id, archetype id or component names contain filter.
func FilterEntities(entities []EntityInfo, filter string) []EntityInfo {
	if filter == "" {
		return entities
	}

	filtered := make([]EntityInfo, 0, len(entities))
	filterLower := strings.ToLower(filter)

	for _, entity := range entities {
		idStr := fmt.Sprintf("%d", entity.ID)
		archStr := fmt.Sprintf("0x%x", entity.ArchetypeID)
		componentsStr := strings.ToLower(strings.Join(entity.ComponentTypes, " "))

		if strings.Contains(idStr, filterLower) ||
			strings.Contains(archStr, filterLower) ||
			strings.Contains(componentsStr, filterLower) {
			filtered = append(filtered, entity)
		}
	}

	return filtered
}

// DescribeComponents formats each component of a live entity as "Type: {fields}".
func DescribeComponents(storage *ecs.Storage, id ecs.EntityId) []string {
	components := storage.Components(id)
	if components == nil {
		return nil
	}

	lines := make([]string, len(components))
	for i, comp := range components {
		value := reflect.ValueOf(comp).Elem()
		lines[i] = fmt.Sprintf("%s: %+v", value.Type().Name(), value.Interface())
	}
	return lines
}

func (eb *EntityBrowserComponent) Render(storage *ecs.Storage) {
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.entities = CollectEntities(storage)

	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
	}

	filteredEntities := FilterEntities(eb.entities, eb.filterText)
	totalPages := max(1, (len(filteredEntities)+eb.maxEntitiesPerPage-1)/eb.maxEntitiesPerPage)
	eb.currentPage = min(eb.currentPage, totalPages-1)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 3, tableFlags, imgui.NewVec2(0, 240), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Archetype ID")
		imgui.TableSetupColumn("Components")
		imgui.TableHeadersRow()

		startIdx := eb.currentPage * eb.maxEntitiesPerPage
		endIdx := min(startIdx+eb.maxEntitiesPerPage, len(filteredEntities))

		for i := startIdx; i < endIdx; i++ {
			entity := filteredEntities[i]
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := eb.hasSelection && eb.selectedEntityId == entity.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selectedEntityId = entity.ID
				eb.hasSelection = true
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("0x%X", entity.ArchetypeID))

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))
		}

		imgui.EndTable()
	}

	if len(filteredEntities) > eb.maxEntitiesPerPage {
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(filteredEntities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(filteredEntities)))
	}

	if eb.hasSelection {
		imgui.Separator()
		lines := DescribeComponents(storage, eb.selectedEntityId)
		if lines == nil {
			imgui.Text(fmt.Sprintf("Entity %d was deleted", eb.selectedEntityId))
		} else {
			imgui.Text(fmt.Sprintf("Entity %d", eb.selectedEntityId))
			for _, line := range lines {
				imgui.BulletText(line)
			}
		}
	}

	imgui.End()
}

// SelectedEntity returns the selected entity and whether one was picked.
func (eb *EntityBrowserComponent) SelectedEntity() (ecs.EntityId, bool) {
	return eb.selectedEntityId, eb.hasSelection
}
