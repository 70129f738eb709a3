package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"room-service/internal/catalog"
	"room-service/internal/registerroom"
	"room-service/internal/wizard"
)

type option struct {
	value string
	label string
}

// field is one line of a wizard screen. Choice fields have options and are
// cycled with left/right; the others are typed into and applied with enter.
type field struct {
	label   string
	hint    string
	options func(registerroom.State) []option
	value   func(registerroom.State) string
	// edit is what the input starts with; value is used when nil.
	edit  func(registerroom.State) string
	apply func(string) error
}

func (f field) isChoice() bool { return f.options != nil }

func (f field) display(s registerroom.State) string {
	v := f.value(s)
	if f.isChoice() {
		if o, ok := lo.Find(f.options(s), func(o option) bool { return o.value == v }); ok {
			return o.label
		}
	}
	if v == "" {
		return "-"
	}
	return v
}

func (f field) initial(s registerroom.State) string {
	if f.edit != nil {
		return f.edit(s)
	}
	return f.value(s)
}

type screen struct {
	step   wizard.Step
	title  string
	fields []field
}

type deps struct {
	form     *registerroom.Store
	catalog  *catalog.Catalog
	building *wizard.BuildingStep
	location *wizard.LocationStep
}

func (d deps) dispatch(a registerroom.Action) error {
	d.form.Dispatch(a)
	return nil
}

func plain(vs []string) []option {
	return lo.Map(vs, func(v string, _ int) option { return option{value: v, label: v} })
}

func deref[T ~string](p *T) string {
	if p == nil {
		return ""
	}
	return string(*p)
}

func (d deps) text(label string, get func(registerroom.State) string, set func(string) registerroom.Action) field {
	return field{
		label: label,
		value: get,
		apply: func(v string) error { return d.dispatch(set(strings.TrimSpace(v))) },
	}
}

func (d deps) number(label string, get func(registerroom.State) int, set func(int) registerroom.Action) field {
	return field{
		label: label,
		value: func(s registerroom.State) string { return strconv.Itoa(get(s)) },
		apply: func(v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s: 숫자를 입력하세요", label)
			}
			return d.dispatch(set(n))
		},
	}
}

func (d deps) coordinate(label string, get func(registerroom.State) float64, set func(float64) registerroom.Action) field {
	return field{
		label: label,
		value: func(s registerroom.State) string { return strconv.FormatFloat(get(s), 'f', -1, 64) },
		apply: func(v string) error {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return fmt.Errorf("%s: 숫자를 입력하세요", label)
			}
			return d.dispatch(set(f))
		},
	}
}

func (d deps) list(label string, offered []string, get func(registerroom.State) []string, set func([]string) registerroom.Action) field {
	return field{
		label: label,
		hint:  strings.Join(offered, ", "),
		value: func(s registerroom.State) string { return strings.Join(get(s), ", ") },
		apply: func(v string) error {
			items := lo.Compact(lo.Map(strings.Split(v, ","), func(p string, _ int) string { return strings.TrimSpace(p) }))
			return d.dispatch(set(items))
		},
	}
}

func (d deps) date(label string, get func(registerroom.State) *time.Time, set func(*time.Time) registerroom.Action) field {
	return field{
		label: label,
		hint:  "YYYY-MM-DD",
		value: func(s registerroom.State) string {
			if t := get(s); t != nil {
				return t.Format(time.DateOnly)
			}
			return ""
		},
		apply: func(v string) error {
			v = strings.TrimSpace(v)
			if v == "" {
				return d.dispatch(set(nil))
			}
			t, err := time.Parse(time.DateOnly, v)
			if err != nil {
				return fmt.Errorf("%s: YYYY-MM-DD 형식으로 입력하세요", label)
			}
			return d.dispatch(set(&t))
		},
	}
}

var errBedFormat = errors.New("형식이 올바르지 않습니다")

func (d deps) parseBed(kind, count string) (registerroom.BedType, int, error) {
	if !d.catalog.IsBedType(kind) {
		return "", 0, fmt.Errorf("알 수 없는 침대 종류: %s", kind)
	}
	n, err := strconv.Atoi(count)
	if err != nil {
		return "", 0, errBedFormat
	}
	return registerroom.BedType(kind), n, nil
}

func (d deps) bedSummary(beds []registerroom.Bed) string {
	if len(beds) == 0 {
		return "-"
	}
	return strings.Join(lo.Map(beds, func(b registerroom.Bed, _ int) string {
		return fmt.Sprintf("%s %d", d.catalog.BedTypeLabel(string(b.Type)), b.Count)
	}), ", ")
}

// bedroomBeds edits one bed type of one bedroom: "<bedroom> <type> <count>".
func (d deps) bedroomBeds() field {
	return field{
		label: "침실별 침대",
		hint:  "침실번호 종류 개수, 예: 1 queen 1",
		value: func(s registerroom.State) string {
			return strings.Join(lo.Map(s.BedList, func(b registerroom.Bedroom, _ int) string {
				return fmt.Sprintf("%d: %s", b.ID, d.bedSummary(b.Beds))
			}), " / ")
		},
		edit: func(registerroom.State) string { return "" },
		apply: func(v string) error {
			parts := strings.Fields(v)
			if len(parts) != 3 {
				return errBedFormat
			}
			id, err := strconv.Atoi(parts[0])
			if err != nil {
				return errBedFormat
			}
			kind, n, err := d.parseBed(parts[1], parts[2])
			if err != nil {
				return err
			}
			return d.dispatch(registerroom.SetBedTypeCount(id, kind, n))
		},
	}
}

func (d deps) publicBeds() field {
	return field{
		label: "공용 공간 침대",
		hint:  "종류 개수, 예: sofa 1",
		value: func(s registerroom.State) string { return d.bedSummary(s.PublicBedList) },
		edit:  func(registerroom.State) string { return "" },
		apply: func(v string) error {
			parts := strings.Fields(v)
			if len(parts) != 2 {
				return errBedFormat
			}
			kind, n, err := d.parseBed(parts[0], parts[1])
			if err != nil {
				return err
			}
			return d.dispatch(registerroom.SetPublicBedTypeCount(kind, n))
		},
	}
}

func (d deps) buildingFields() []field {
	b := d.building
	return []field{
		{
			label:   "숙소 유형",
			options: func(registerroom.State) []option { return plain(b.LargeBuildingTypeOptions()) },
			value:   func(s registerroom.State) string { return deref(s.LargeBuildingType) },
			apply:   func(v string) error { b.SelectLargeBuildingType(v); return nil },
		},
		{
			label:   "건물 유형",
			options: func(s registerroom.State) []option { return plain(b.BuildingTypeOptions(s)) },
			value:   func(s registerroom.State) string { return deref(s.BuildingType) },
			apply:   func(v string) error { b.SelectBuildingType(v); return nil },
		},
		{
			label: "숙소 종류",
			options: func(registerroom.State) []option {
				return lo.Map(b.RoomTypeOptions(), func(o catalog.Option, _ int) option {
					return option{value: o.Value, label: o.Label}
				})
			},
			value: func(s registerroom.State) string { return deref(s.RoomType) },
			apply: func(v string) error { b.SelectRoomType(registerroom.RoomType(v)); return nil },
		},
		{
			label: "게스트 전용",
			options: func(registerroom.State) []option {
				return lo.Map(b.GuestSetupOptions(), func(o catalog.GuestSetupOption, _ int) option {
					return option{value: strconv.FormatBool(o.Value), label: o.Label}
				})
			},
			value: func(s registerroom.State) string {
				if s.IsSetUpForGuest == nil {
					return ""
				}
				return strconv.FormatBool(*s.IsSetUpForGuest)
			},
			apply: func(v string) error {
				set, err := strconv.ParseBool(v)
				if err != nil {
					return err
				}
				b.SelectIsSetUpForGuest(set)
				return nil
			},
		},
	}
}

func (d deps) screens() []screen {
	l := d.location
	step := func(name string) wizard.Step {
		s, _ := wizard.Lookup(name)
		return s
	}
	return []screen{
		{step: step("building"), title: "숙소 유형을 알려주세요", fields: d.buildingFields()},
		{step: step("bedrooms"), title: "숙박 가능 인원과 침대", fields: []field{
			d.number("최대 숙박 인원", func(s registerroom.State) int { return s.MaximumGuestCount }, registerroom.SetMaximumGuestCount),
			d.number("침실 수", func(s registerroom.State) int { return s.BedroomCount }, registerroom.SetBedroomCount),
			d.number("침대 수", func(s registerroom.State) int { return s.BedCount }, registerroom.SetBedCount),
			d.bedroomBeds(),
			d.publicBeds(),
		}},
		{step: step("bathroom"), title: "욕실", fields: []field{
			d.number("욕실 수", func(s registerroom.State) int { return s.BathroomCount }, registerroom.SetBathroomCount),
			{
				label: "욕실 종류",
				options: func(registerroom.State) []option {
					return []option{
						{value: string(registerroom.BathroomPrivate), label: "개인 욕실"},
						{value: string(registerroom.BathroomPublic), label: "공용 욕실"},
					}
				},
				value: func(s registerroom.State) string { return deref(s.BathroomType) },
				apply: func(v string) error {
					return d.dispatch(registerroom.SetBathroomType(registerroom.BathroomType(v)))
				},
			},
		}},
		{step: step("location"), title: "숙소 위치 (ctrl+l: 현재 위치 사용)", fields: []field{
			{
				label:   "국가",
				options: func(registerroom.State) []option { return plain(l.CountryOptions()) },
				value:   func(s registerroom.State) string { return s.Country },
				apply:   func(v string) error { l.SetCountry(v); return nil },
			},
			d.text("시/도", func(s registerroom.State) string { return s.City }, registerroom.SetCity),
			d.text("시/군/구", func(s registerroom.State) string { return s.District }, registerroom.SetDistrict),
			d.text("도로명", func(s registerroom.State) string { return s.StreetAddress }, registerroom.SetStreetAddress),
			d.text("상세 주소 (선택)", func(s registerroom.State) string { return s.DetailAddress }, registerroom.SetDetailAddress),
			d.text("우편번호", func(s registerroom.State) string { return s.Postcode }, registerroom.SetPostcode),
		}},
		{step: step("geometry"), title: "지도에 표시될 위치", fields: []field{
			d.coordinate("위도", func(s registerroom.State) float64 { return s.Latitude }, registerroom.SetLatitude),
			d.coordinate("경도", func(s registerroom.State) float64 { return s.Longitude }, registerroom.SetLongitude),
		}},
		{step: step("amenities"), title: "편의시설", fields: []field{
			d.list("편의시설", d.catalog.Amenities, func(s registerroom.State) []string { return s.Amenities }, registerroom.SetAmenities),
		}},
		{step: step("conveniences"), title: "특별한 편의시설", fields: []field{
			d.list("특별 편의시설", d.catalog.Conveniences, func(s registerroom.State) []string { return s.Conveniences }, registerroom.SetConveniences),
		}},
		{step: step("photo"), title: "사진", fields: []field{
			d.list("사진 URL", nil, func(s registerroom.State) []string { return s.Photos }, registerroom.SetPhotos),
		}},
		{step: step("description"), title: "숙소 설명", fields: []field{
			d.text("설명", func(s registerroom.State) string { return s.Description }, registerroom.SetDescription),
		}},
		{step: step("title"), title: fmt.Sprintf("숙소 이름 (최대 %d자)", wizard.MaxTitleLength), fields: []field{
			d.text("이름", func(s registerroom.State) string { return s.Title }, registerroom.SetTitle),
		}},
		{step: step("price"), title: "1박 요금", fields: []field{
			d.number("요금 (원)", func(s registerroom.State) int { return s.Price }, registerroom.SetPrice),
		}},
		{step: step("date"), title: "예약 가능 기간", fields: []field{
			d.date("시작일", func(s registerroom.State) *time.Time { return s.StartDate }, registerroom.SetStartDate),
			d.date("종료일", func(s registerroom.State) *time.Time { return s.EndDate }, registerroom.SetEndDate),
		}},
		{step: step("checklist"), title: "등록 전 확인 (enter: 등록)"},
	}
}
