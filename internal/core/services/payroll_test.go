package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/payroll/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/payroll/internal/core/domain"
)

type stubAvatar struct{}

func (stubAvatar) URL(name string) string {
	return "avatar:" + name
}

// fixedClock returns a clock that advances one millisecond per call.
func fixedClock(start int64) func() time.Time {
	var ms atomic.Int64
	ms.Store(start - 1)
	return func() time.Time {
		return time.UnixMilli(ms.Add(1))
	}
}

func newTestPayrollService(t *testing.T) (*PayrollService, *memory.RecordStore) {
	t.Helper()
	store := memory.NewRecordStore()
	svc := NewPayrollService(store, stubAvatar{})
	svc.SetClock(fixedClock(1700000000000))
	return svc, store
}

func create(t *testing.T, svc *PayrollService, in domain.EmployeeInput) *domain.Employee {
	t.Helper()
	e, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, e)
	return e
}

func TestPayrollService_Create_AnnScenario(t *testing.T) {
	svc, _ := newTestPayrollService(t)
	ctx := context.Background()

	create(t, svc, domain.EmployeeInput{Name: "Ann", Salary: "1000"})

	views, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Ann", views[0].Name)
	assert.InDelta(t, 1000, views[0].Salary, 1e-9)
	assert.InDelta(t, 120, views[0].Tax, 1e-9)
	assert.InDelta(t, 880, views[0].NetSalary, 1e-9)
}

func TestPayrollService_Create_AssignsDerivedFields(t *testing.T) {
	svc, _ := newTestPayrollService(t)

	e := create(t, svc, domain.EmployeeInput{
		Name:       "  Bob  ",
		Gender:     "male",
		Department: []string{"Sales"},
		Salary:     " 2500.50 ",
		StartDate:  "2024-02-30",
		Notes:      "remote",
	})

	assert.Equal(t, int64(1700000000000), e.ID)
	assert.Equal(t, "Bob", e.Name)
	assert.Equal(t, "avatar:Bob", e.ProfilePic)
	assert.InDelta(t, 2500.5, e.Salary, 1e-9)
	assert.Equal(t, "2024-02-30", e.StartDate, "start date is stored verbatim")
	assert.Equal(t, domain.Departments{"Sales"}, e.Department)
}

func TestPayrollService_Create_GrowsCollectionByOne(t *testing.T) {
	svc, _ := newTestPayrollService(t)
	ctx := context.Background()
	create(t, svc, domain.EmployeeInput{Name: "Ann", Salary: "1000"})

	for _, salary := range []string{"0", "1", "333.33", "98765.4321"} {
		before, err := svc.List(ctx)
		require.NoError(t, err)

		create(t, svc, domain.EmployeeInput{Name: "X", Salary: salary})

		after, err := svc.List(ctx)
		require.NoError(t, err)
		require.Len(t, after, len(before)+1)

		last := after[len(after)-1]
		assert.InDelta(t, 0.12*last.Salary, last.Tax, 1e-9)
		assert.InDelta(t, 0.88*last.Salary, last.NetSalary, 1e-9)
	}
}

func TestPayrollService_Create_Departments(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want domain.Departments
	}{
		{name: "multiple", in: []string{"Eng", "Ops"}, want: domain.Departments{"Eng", "Ops"}},
		{name: "single", in: []string{"Eng"}, want: domain.Departments{"Eng"}},
		{name: "absent", in: nil, want: domain.Departments{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestPayrollService(t)
			e := create(t, svc, domain.EmployeeInput{Name: "Ann", Salary: "1", Department: tt.in})

			got, err := svc.Get(context.Background(), domain.FormatID(e.ID))
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Department)
		})
	}
}

func TestPayrollService_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		in    domain.EmployeeInput
		field string
	}{
		{name: "empty name", in: domain.EmployeeInput{Name: "", Salary: "10"}, field: "name"},
		{name: "blank name", in: domain.EmployeeInput{Name: "   ", Salary: "10"}, field: "name"},
		{name: "missing salary", in: domain.EmployeeInput{Name: "Ann"}, field: "salary"},
		{name: "negative salary", in: domain.EmployeeInput{Name: "Ann", Salary: "-1"}, field: "salary"},
		{name: "garbage salary", in: domain.EmployeeInput{Name: "Ann", Salary: "lots"}, field: "salary"},
		{name: "nan salary", in: domain.EmployeeInput{Name: "Ann", Salary: "NaN"}, field: "salary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestPayrollService(t)
			create(t, svc, domain.EmployeeInput{Name: "Existing", Salary: "1"})
			before := store.Bytes()
			writes := store.Writes()

			e, err := svc.Create(context.Background(), tt.in)

			require.Error(t, err)
			assert.Nil(t, e)
			assert.ErrorIs(t, err, domain.ErrValidation)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.NotEmpty(t, verr.Message)
			assert.Equal(t, before, store.Bytes())
			assert.Equal(t, writes, store.Writes())
		})
	}
}

func TestPayrollService_Create_ValidatesBeforeIO(t *testing.T) {
	store := memory.NewRecordStore()
	store.SetBytes([]byte("{corrupt"))
	svc := NewPayrollService(store, stubAvatar{})

	_, err := svc.Create(context.Background(), domain.EmployeeInput{Name: "", Salary: "1"})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.NotErrorIs(t, err, domain.ErrCorruptStore)
}

func TestPayrollService_Create_SameMillisecondCollides(t *testing.T) {
	svc, _ := newTestPayrollService(t)
	instant := time.UnixMilli(1700000000000)
	svc.SetClock(func() time.Time { return instant })

	a := create(t, svc, domain.EmployeeInput{Name: "A", Salary: "1"})
	b := create(t, svc, domain.EmployeeInput{Name: "B", Salary: "2"})

	assert.Equal(t, a.ID, b.ID)
	views, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, views, 2)
}

func TestPayrollService_Get(t *testing.T) {
	svc, _ := newTestPayrollService(t)
	ctx := context.Background()
	e := create(t, svc, domain.EmployeeInput{Name: "Ann", Salary: "1000"})

	for _, id := range []string{"1700000000000", " 1700000000000 ", "1700000000000.0"} {
		got, err := svc.Get(ctx, id)
		require.NoError(t, err, id)
		require.NotNil(t, got, id)
		assert.Equal(t, e.ID, got.ID)
	}

	for _, id := range []string{"", "abc", "1700000000001", "1700000000000.5"} {
		got, err := svc.Get(ctx, id)
		require.NoError(t, err, id)
		assert.Nil(t, got, id)
	}
}

func TestPayrollService_Get_ReturnsFirstMatch(t *testing.T) {
	svc, _ := newTestPayrollService(t)
	svc.SetClock(func() time.Time { return time.UnixMilli(5) })
	create(t, svc, domain.EmployeeInput{Name: "First", Salary: "1"})
	create(t, svc, domain.EmployeeInput{Name: "Second", Salary: "1"})

	got, err := svc.Get(context.Background(), "5")

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "First", got.Name)
}

func TestPayrollService_Get_ReturnsCopy(t *testing.T) {
	svc, _ := newTestPayrollService(t)
	ctx := context.Background()
	e := create(t, svc, domain.EmployeeInput{Name: "Ann", Salary: "1", Department: []string{"Eng"}})

	got, err := svc.Get(ctx, domain.FormatID(e.ID))
	require.NoError(t, err)
	got.Department[0] = "Changed"

	again, err := svc.Get(ctx, domain.FormatID(e.ID))
	require.NoError(t, err)
	assert.Equal(t, domain.Departments{"Eng"}, again.Department)
}

func TestPayrollService_Update_FullSubmission(t *testing.T) {
	svc, _ := newTestPayrollService(t)
	ctx := context.Background()
	e := create(t, svc, domain.EmployeeInput{Name: "Ann", Salary: "1000", Department: []string{"Eng"}})

	err := svc.Update(ctx, domain.FormatID(e.ID), domain.EmployeeInput{
		Name:       "Annie",
		Gender:     "female",
		Department: []string{"Ops", "Eng"},
		Salary:     "2000",
		StartDate:  "2023-05-01",
		Notes:      "promoted",
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, domain.FormatID(e.ID))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, "Annie", got.Name)
	assert.Equal(t, "female", got.Gender)
	assert.Equal(t, domain.Departments{"Ops", "Eng"}, got.Department)
	assert.InDelta(t, 2000, got.Salary, 1e-9)
	assert.Equal(t, "2023-05-01", got.StartDate)
	assert.Equal(t, "promoted", got.Notes)
}

func TestPayrollService_Update_KeepsIDAndProfilePic(t *testing.T) {
	svc, _ := newTestPayrollService(t)
	ctx := context.Background()
	e := create(t, svc, domain.EmployeeInput{Name: "Ann", Salary: "1000"})

	require.NoError(t, svc.Update(ctx, domain.FormatID(e.ID), domain.EmployeeInput{Name: "Zed", Salary: "1"}))

	got, err := svc.Get(ctx, domain.FormatID(e.ID))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Zed", got.Name)
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, "avatar:Ann", got.ProfilePic)
}

func TestPayrollService_Update_ShallowMerge(t *testing.T) {
	svc, _ := newTestPayrollService(t)
	ctx := context.Background()
	e := create(t, svc, domain.EmployeeInput{
		Name: "Ann", Gender: "female", Department: []string{"Eng"},
		Salary: "1000", StartDate: "2024-01-01", Notes: "n",
	})

	in := domain.EmployeeInput{Notes: "updated"}
	in.Mark(domain.FieldNotes)
	require.NoError(t, svc.Update(ctx, domain.FormatID(e.ID), in))

	got, err := svc.Get(ctx, domain.FormatID(e.ID))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "updated", got.Notes)
	assert.Equal(t, "Ann", got.Name)
	assert.Equal(t, "female", got.Gender)
	assert.Equal(t, domain.Departments{"Eng"}, got.Department)
	assert.InDelta(t, 1000, got.Salary, 1e-9)
	assert.Equal(t, "2024-01-01", got.StartDate)
}

func TestPayrollService_Update_DoesNotValidateSalary(t *testing.T) {
	svc, _ := newTestPayrollService(t)
	ctx := context.Background()
	e := create(t, svc, domain.EmployeeInput{Name: "Ann", Salary: "1000"})
	id := domain.FormatID(e.ID)

	require.NoError(t, svc.Update(ctx, id, *new(domain.EmployeeInput).Mark(domain.FieldSalary)))
	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, got.Salary)

	in := domain.EmployeeInput{Salary: "-50"}
	require.NoError(t, svc.Update(ctx, id, *in.Mark(domain.FieldSalary)))
	got, err = svc.Get(ctx, id)
	require.NoError(t, err)
	assert.InDelta(t, -50, got.Salary, 1e-9)
}

func TestPayrollService_Update_UnknownIDLeavesMediumUnchanged(t *testing.T) {
	svc, store := newTestPayrollService(t)
	create(t, svc, domain.EmployeeInput{Name: "Ann", Salary: "1000"})
	before := store.Bytes()
	writes := store.Writes()

	err := svc.Update(context.Background(), "42", domain.EmployeeInput{Name: "Ghost", Salary: "1"})

	require.NoError(t, err)
	assert.Equal(t, before, store.Bytes())
	assert.Equal(t, writes, store.Writes())
}

func TestPayrollService_Delete(t *testing.T) {
	svc, _ := newTestPayrollService(t)
	ctx := context.Background()
	a := create(t, svc, domain.EmployeeInput{Name: "A", Salary: "1"})
	b := create(t, svc, domain.EmployeeInput{Name: "B", Salary: "2"})
	c := create(t, svc, domain.EmployeeInput{Name: "C", Salary: "3"})

	require.NoError(t, svc.Delete(ctx, domain.FormatID(b.ID)))

	views, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, a.ID, views[0].ID)
	assert.Equal(t, c.ID, views[1].ID)
}

func TestPayrollService_Delete_RemovesEveryMatch(t *testing.T) {
	svc, _ := newTestPayrollService(t)
	ctx := context.Background()
	svc.SetClock(func() time.Time { return time.UnixMilli(7) })
	create(t, svc, domain.EmployeeInput{Name: "A", Salary: "1"})
	create(t, svc, domain.EmployeeInput{Name: "B", Salary: "1"})

	require.NoError(t, svc.Delete(ctx, "7"))

	views, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestPayrollService_Delete_UnknownIDLeavesMediumUnchanged(t *testing.T) {
	svc, store := newTestPayrollService(t)
	create(t, svc, domain.EmployeeInput{Name: "Ann", Salary: "1000"})
	before := store.Bytes()
	writes := store.Writes()

	require.NoError(t, svc.Delete(context.Background(), "not-an-id"))

	assert.Equal(t, before, store.Bytes())
	assert.Equal(t, writes, store.Writes())
}

func TestPayrollService_StoreErrorsPropagate(t *testing.T) {
	ctx := context.Background()

	t.Run("corrupt", func(t *testing.T) {
		svc, store := newTestPayrollService(t)
		store.SetBytes([]byte("[{"))

		_, err := svc.List(ctx)
		assert.ErrorIs(t, err, domain.ErrCorruptStore)
		_, err = svc.Get(ctx, "1")
		assert.ErrorIs(t, err, domain.ErrCorruptStore)
		_, err = svc.Create(ctx, domain.EmployeeInput{Name: "Ann", Salary: "1"})
		assert.ErrorIs(t, err, domain.ErrCorruptStore)
		assert.ErrorIs(t, svc.Update(ctx, "1", domain.EmployeeInput{}), domain.ErrCorruptStore)
		assert.ErrorIs(t, svc.Delete(ctx, "1"), domain.ErrCorruptStore)
	})

	t.Run("write failure", func(t *testing.T) {
		svc, store := newTestPayrollService(t)
		e := create(t, svc, domain.EmployeeInput{Name: "Ann", Salary: "1"})
		before := store.Bytes()
		diskFull := errors.New("no space left on device")
		store.FailWrites(diskFull)
		id := domain.FormatID(e.ID)

		_, err := svc.Create(ctx, domain.EmployeeInput{Name: "Bob", Salary: "1"})
		assert.ErrorIs(t, err, domain.ErrWriteFailure)
		assert.ErrorIs(t, err, diskFull)
		assert.ErrorIs(t, svc.Update(ctx, id, domain.EmployeeInput{Name: "X", Salary: "1"}), domain.ErrWriteFailure)
		assert.ErrorIs(t, svc.Delete(ctx, id), domain.ErrWriteFailure)

		assert.Equal(t, before, store.Bytes(), "prior state stays authoritative")
	})
}

func TestPayrollService_NilStore(t *testing.T) {
	svc := NewPayrollService(nil, nil)
	ctx := context.Background()

	_, err := svc.List(ctx)
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	_, err = svc.Get(ctx, "1")
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	_, err = svc.Create(ctx, domain.EmployeeInput{Name: "Ann", Salary: "1"})
	assert.ErrorIs(t, err, domain.ErrNotImplemented)
	assert.ErrorIs(t, svc.Update(ctx, "1", domain.EmployeeInput{}), domain.ErrNotImplemented)
	assert.ErrorIs(t, svc.Delete(ctx, "1"), domain.ErrNotImplemented)
}

func TestPayrollService_NilAvatar(t *testing.T) {
	svc := NewPayrollService(memory.NewRecordStore(), nil)

	e, err := svc.Create(context.Background(), domain.EmployeeInput{Name: "Ann", Salary: "1"})

	require.NoError(t, err)
	assert.Empty(t, e.ProfilePic)
}

func TestPayrollService_List_NeverWrites(t *testing.T) {
	svc, store := newTestPayrollService(t)
	create(t, svc, domain.EmployeeInput{Name: "Ann", Salary: "1"})
	writes := store.Writes()

	_, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, writes, store.Writes())
}

func TestPayrollService_ConcurrentCreatesAreNotLost(t *testing.T) {
	svc, _ := newTestPayrollService(t)
	ctx := context.Background()
	const n = 50

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Create(ctx, domain.EmployeeInput{Name: fmt.Sprintf("E%d", i), Salary: "1"})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	views, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, views, n)
}

// editDeleteEndState runs an edit and a delete on one id concurrently and
// returns the surviving collection.
func editDeleteEndState(t *testing.T, serialized bool) []domain.EmployeeView {
	t.Helper()
	svc, _ := newTestPayrollService(t)
	if !serialized {
		svc.DisableSerialization()
	}
	ctx := context.Background()
	e := create(t, svc, domain.EmployeeInput{Name: "Ann", Salary: "1000"})
	id := domain.FormatID(e.ID)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, svc.Update(ctx, id, domain.EmployeeInput{Name: "Edited", Salary: "2000"}))
	}()
	go func() {
		defer wg.Done()
		assert.NoError(t, svc.Delete(ctx, id))
	}()
	wg.Wait()

	views, err := svc.List(ctx)
	require.NoError(t, err)
	return views
}

func TestPayrollService_ConcurrentEditAndDelete(t *testing.T) {
	for _, serialized := range []bool{true, false} {
		t.Run(fmt.Sprintf("serialized=%v", serialized), func(t *testing.T) {
			for i := 0; i < 50; i++ {
				views := editDeleteEndState(t, serialized)

				switch len(views) {
				case 0:
					// delete won
				case 1:
					assert.Equal(t, "Edited", views[0].Name)
					assert.InDelta(t, 2000, views[0].Salary, 1e-9)
					assert.Equal(t, int64(1700000000000), views[0].ID)
				default:
					t.Fatalf("unexpected end state: %d records", len(views))
				}
			}
		})
	}
}

func TestPayrollService_UpdateMatched(t *testing.T) {
	svc, store := newTestPayrollService(t)
	ctx := context.Background()
	ann := create(t, svc, domain.EmployeeInput{Name: "Ann", Salary: "1000"})
	writes := store.Writes()

	var in domain.EmployeeInput
	in.Notes = "lead"
	in.Mark(domain.FieldNotes)

	matched, err := svc.UpdateMatched(ctx, "404", in)
	require.NoError(t, err)
	assert.False(t, matched)
	assert.Equal(t, writes, store.Writes())

	matched, err = svc.UpdateMatched(ctx, domain.FormatID(ann.ID), in)
	require.NoError(t, err)
	assert.True(t, matched)

	got, err := svc.Get(ctx, domain.FormatID(ann.ID))
	require.NoError(t, err)
	assert.Equal(t, "lead", got.Notes)
}

func TestPayrollService_DeleteMatched(t *testing.T) {
	svc, store := newTestPayrollService(t)
	ctx := context.Background()
	svc.SetClock(func() time.Time { return time.UnixMilli(7) })
	create(t, svc, domain.EmployeeInput{Name: "A", Salary: "1"})
	create(t, svc, domain.EmployeeInput{Name: "B", Salary: "1"})
	writes := store.Writes()

	removed, err := svc.DeleteMatched(ctx, "8")
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Equal(t, writes, store.Writes())

	removed, err = svc.DeleteMatched(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
}
