package wizard

import (
	"room-service/internal/catalog"
	"room-service/internal/registerroom"
)

// BuildingStep is the first screen: what kind of place is being listed.
type BuildingStep struct {
	Step
	form    registerroom.Dispatcher
	catalog *catalog.Catalog
}

func NewBuildingStep(form registerroom.Dispatcher, c *catalog.Catalog) *BuildingStep {
	s, _ := Lookup("building")
	return &BuildingStep{Step: s, form: form, catalog: c}
}

func (b *BuildingStep) LargeBuildingTypeOptions() []string {
	return b.catalog.LargeBuildingTypes()
}

// BuildingTypeOptions is empty until a large building type is chosen.
func (b *BuildingStep) BuildingTypeOptions(s registerroom.State) []string {
	if s.LargeBuildingType == nil {
		return nil
	}
	return b.catalog.BuildingTypes(*s.LargeBuildingType)
}

func (b *BuildingStep) RoomTypeOptions() []catalog.Option {
	return b.catalog.RoomTypes
}

func (b *BuildingStep) GuestSetupOptions() []catalog.GuestSetupOption {
	return b.catalog.GuestSetup
}

// SelectLargeBuildingType also selects the first building type of the new
// category, or clears the building type when the category has none.
func (b *BuildingStep) SelectLargeBuildingType(v string) registerroom.State {
	b.form.Dispatch(registerroom.SetLargeBuildingType(v))
	def, _ := b.catalog.DefaultBuildingType(v)
	return b.form.Dispatch(registerroom.SetBuildingType(def))
}

func (b *BuildingStep) SelectBuildingType(v string) registerroom.State {
	return b.form.Dispatch(registerroom.SetBuildingType(v))
}

func (b *BuildingStep) SelectRoomType(v registerroom.RoomType) registerroom.State {
	return b.form.Dispatch(registerroom.SetRoomType(v))
}

func (b *BuildingStep) SelectIsSetUpForGuest(v bool) registerroom.State {
	return b.form.Dispatch(registerroom.SetIsSetUpForGuest(v))
}

// Valid evaluates the step against the current form.
func (b *BuildingStep) Valid() bool {
	return b.IsValid(b.form.State())
}
