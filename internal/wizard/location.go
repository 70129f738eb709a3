package wizard

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"room-service/internal/catalog"
	"room-service/internal/geo"
	"room-service/internal/registerroom"
)

// LocationStep collects the address of the place.
type LocationStep struct {
	Step
	form     registerroom.Dispatcher
	catalog  *catalog.Catalog
	locator  geo.Locator
	geocoder geo.ReverseGeocoder
}

func NewLocationStep(form registerroom.Dispatcher, c *catalog.Catalog, locator geo.Locator, geocoder geo.ReverseGeocoder) *LocationStep {
	s, _ := Lookup("location")
	return &LocationStep{Step: s, form: form, catalog: c, locator: locator, geocoder: geocoder}
}

func (l *LocationStep) CountryOptions() []string {
	return l.catalog.Countries
}

// UseCurrentLocation fills the whole address from the device position.
// The form is updated in a single dispatch, and only when both the position
// and its address could be resolved.
func (l *LocationStep) UseCurrentLocation(ctx context.Context) (registerroom.State, error) {
	at, err := l.locator.Locate(ctx)
	if err != nil {
		log.WithError(err).Warn("current location unavailable")
		return l.form.State(), fmt.Errorf("LocationStep.UseCurrentLocation: %w", err)
	}

	info, err := l.geocoder.GetLocationInfo(ctx, at)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"latitude":  at.Latitude,
			"longitude": at.Longitude,
		}).Warn("reverse geocoding failed")
		return l.form.State(), fmt.Errorf("LocationStep.UseCurrentLocation: %w", err)
	}

	return l.form.Dispatch(registerroom.SetAddress(info)), nil
}

func (l *LocationStep) SetCountry(v string) registerroom.State {
	return l.form.Dispatch(registerroom.SetCountry(v))
}

func (l *LocationStep) SetCity(v string) registerroom.State {
	return l.form.Dispatch(registerroom.SetCity(v))
}

func (l *LocationStep) SetDistrict(v string) registerroom.State {
	return l.form.Dispatch(registerroom.SetDistrict(v))
}

func (l *LocationStep) SetStreetAddress(v string) registerroom.State {
	return l.form.Dispatch(registerroom.SetStreetAddress(v))
}

func (l *LocationStep) SetDetailAddress(v string) registerroom.State {
	return l.form.Dispatch(registerroom.SetDetailAddress(v))
}

func (l *LocationStep) SetPostcode(v string) registerroom.State {
	return l.form.Dispatch(registerroom.SetPostcode(v))
}

func (l *LocationStep) Valid() bool {
	return l.IsValid(l.form.State())
}
