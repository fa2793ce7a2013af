package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tripcanvas/internal/config"
	"tripcanvas/internal/models/response_models"
)

// ItineraryValidatorInterface attaches coordinates and applies the day rules.
// Validate never fails; it mutates the itinerary in place.
type ItineraryValidatorInterface interface {
	Validate(ctx context.Context, itinerary *response_models.Itinerary) response_models.ValidationReport
}

type ItineraryValidator struct {
	resolver            GeoResolverInterface
	policy              config.ValidationPolicy
	minActivitiesPerDay int
	concurrency         int
	logger              *zap.Logger
}

func NewItineraryValidator(
	resolver GeoResolverInterface,
	policy config.ValidationPolicy,
	minActivitiesPerDay int,
	concurrency int,
	logger *zap.Logger,
) *ItineraryValidator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &ItineraryValidator{
		resolver:            resolver,
		policy:              policy,
		minActivitiesPerDay: minActivitiesPerDay,
		concurrency:         concurrency,
		logger:              logger,
	}
}

type lookup struct {
	point response_models.GeoPoint
	err   error
}

type dayLookups struct {
	activities    []lookup
	accommodation *lookup
}

func (v *ItineraryValidator) Validate(ctx context.Context, itinerary *response_models.Itinerary) response_models.ValidationReport {
	report := response_models.ValidationReport{Policy: string(v.policy)}
	if itinerary == nil {
		return report
	}

	kept := itinerary.Days[:0]
	for i := range itinerary.Days {
		day := itinerary.Days[i]
		results := v.resolveDay(ctx, &day)

		if v.policy == config.PolicyPermissive {
			v.applyPermissive(&day, results, &report)
			kept = append(kept, day)
			continue
		}
		if v.applyStrict(&day, results, &report) {
			kept = append(kept, day)
		}
	}
	if kept == nil {
		kept = []response_models.DayPlan{}
	}
	itinerary.Days = kept
	return report
}

// resolveDay looks up every place of the day concurrently. Results land in
// per-index slots; the day itself is not touched.
func (v *ItineraryValidator) resolveDay(ctx context.Context, day *response_models.DayPlan) dayLookups {
	results := dayLookups{activities: make([]lookup, len(day.Activities))}

	var g errgroup.Group
	g.SetLimit(v.concurrency)

	for i := range day.Activities {
		name := day.Activities[i].PlaceName
		g.Go(func() error {
			p, err := v.resolver.Resolve(ctx, name)
			results.activities[i] = lookup{point: p, err: err}
			return nil
		})
	}

	if response_models.HasAccommodation(day.Accommodation) {
		results.accommodation = &lookup{}
		name := day.Accommodation
		g.Go(func() error {
			p, err := v.resolver.Resolve(ctx, name)
			*results.accommodation = lookup{point: p, err: err}
			return nil
		})
	}

	_ = g.Wait()
	return results
}

func (v *ItineraryValidator) applyPermissive(day *response_models.DayPlan, results dayLookups, report *response_models.ValidationReport) {
	for i := range day.Activities {
		a := &day.Activities[i]
		a.Location = nil
		if res := results.activities[i]; res.err == nil {
			point := res.point
			a.Location = &point
			report.ResolvedPlaces++
			v.logResolved(day.Day, a.PlaceName)
		} else {
			report.FailedPlaces++
			v.logUnresolved(day.Day, a.PlaceName, res.err)
		}
	}

	day.AccommodationLocation = nil
	if res := results.accommodation; res != nil {
		if res.err == nil {
			point := res.point
			day.AccommodationLocation = &point
			report.ResolvedPlaces++
			v.logResolved(day.Day, day.Accommodation)
		} else {
			report.FailedPlaces++
			v.logUnresolved(day.Day, day.Accommodation, res.err)
		}
	}
}

// applyStrict returns false when the day has to be dropped.
func (v *ItineraryValidator) applyStrict(day *response_models.DayPlan, results dayLookups, report *response_models.ValidationReport) bool {
	survivors := make([]response_models.PlaceActivity, 0, len(day.Activities))
	var dropped []string

	for i, a := range day.Activities {
		res := results.activities[i]
		if res.err != nil {
			report.FailedPlaces++
			dropped = append(dropped, a.PlaceName)
			v.logger.Info("dropping activity",
				zap.Int("day", day.Day), zap.String("place", a.PlaceName), zap.Error(res.err))
			continue
		}
		point := res.point
		a.Location = &point
		survivors = append(survivors, a)
		report.ResolvedPlaces++
		v.logResolved(day.Day, a.PlaceName)
	}
	if len(dropped) > 0 {
		report.DroppedActivities = append(report.DroppedActivities,
			response_models.DroppedActivities{Day: day.Day, Places: dropped})
	}

	day.AccommodationLocation = nil
	if res := results.accommodation; res != nil {
		if res.err != nil {
			report.FailedPlaces++
			v.logUnresolved(day.Day, day.Accommodation, res.err)
			v.dropDay(day.Day, "accommodation not resolved: "+day.Accommodation, report)
			return false
		}
		point := res.point
		day.AccommodationLocation = &point
		report.ResolvedPlaces++
		v.logResolved(day.Day, day.Accommodation)
	}

	if len(survivors) < v.minActivitiesPerDay {
		v.dropDay(day.Day, fmt.Sprintf("only %d of %d activities resolved, need %d",
			len(survivors), len(day.Activities), v.minActivitiesPerDay), report)
		return false
	}

	day.Activities = survivors
	return true
}

func (v *ItineraryValidator) dropDay(day int, reason string, report *response_models.ValidationReport) {
	report.DroppedDays = append(report.DroppedDays, response_models.DroppedDay{Day: day, Reason: reason})
	v.logger.Info("dropping day", zap.Int("day", day), zap.String("reason", reason))
}

func (v *ItineraryValidator) logResolved(day int, place string) {
	v.logger.Info("place resolved", zap.Int("day", day), zap.String("place", place))
}

func (v *ItineraryValidator) logUnresolved(day int, place string, err error) {
	v.logger.Info("place not resolved", zap.Int("day", day), zap.String("place", place), zap.Error(err))
}
