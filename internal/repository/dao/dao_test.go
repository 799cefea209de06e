package dao

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not construct docker pool: %s", err)
	}

	if err = pool.Client.Ping(); err != nil {
		log.Fatalf("could not connect to docker: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=troop",
			"POSTGRES_PASSWORD=troop",
			"POSTGRES_DB=troop_test",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %s", err)
	}

	dsn := fmt.Sprintf("host=localhost port=%s user=troop password=troop dbname=troop_test sslmode=disable",
		resource.GetPort("5432/tcp"))

	pool.MaxWait = 2 * time.Minute
	if err = pool.Retry(func() error {
		db, openErr := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if openErr != nil {
			return openErr
		}

		sqlDB, dbErr := db.DB()
		if dbErr != nil {
			return dbErr
		}
		if pingErr := sqlDB.Ping(); pingErr != nil {
			return pingErr
		}

		testDB = db

		return nil
	}); err != nil {
		log.Fatalf("could not connect to postgres container: %s", err)
	}

	if err = InitTables(testDB); err != nil {
		log.Fatalf("could not migrate tables: %s", err)
	}

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Fatalf("could not purge postgres container: %s", err)
	}

	os.Exit(code)
}

// resetTables truncates everything between tests so each test starts from
// an empty ledger.
func resetTables(t *testing.T) {
	t.Helper()

	err := testDB.Exec(`TRUNCATE organizations, organization_domains, point_system_rules, users,
		groups, participants, group_memberships, point_events, attendance_records, honors,
		badge_progresses RESTART IDENTITY CASCADE`).Error
	require.NoError(t, err)
}

func seedParticipant(t *testing.T, organizationID uint) Participant {
	t.Helper()

	p := Participant{OrganizationID: organizationID, FirstName: "Alex", LastName: "Doe"}
	require.NoError(t, testDB.Create(&p).Error)

	return p
}

func defaultStatusPoints() map[string]int {
	return map[string]int{"present": 1, "absent": 0, "late": 0, "excused": 0}
}

func TestAttendanceDAO_SetStatus(t *testing.T) {
	resetTables(t)

	ctx := context.Background()
	d := NewAttendanceDAO(testDB)
	events := NewPointEventDAO(testDB)
	p := seedParticipant(t, 1)
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	record := AttendanceRecord{
		OrganizationID: 1,
		ParticipantID:  p.ID,
		Date:           date,
		Status:         "present",
		RecordedBy:     9,
	}

	change, err := d.SetStatus(ctx, record, defaultStatusPoints(), nil)
	require.NoError(t, err)
	assert.Equal(t, attendanceStatusNone, change.PreviousStatus)
	assert.Equal(t, 1, change.Delta)

	// Same status again: still one row, no new event.
	change, err = d.SetStatus(ctx, record, defaultStatusPoints(), nil)
	require.NoError(t, err)
	assert.Equal(t, "present", change.PreviousStatus)
	assert.Zero(t, change.Delta)

	var recordCount int64
	require.NoError(t, testDB.Model(&AttendanceRecord{}).Count(&recordCount).Error)
	assert.EqualValues(t, 1, recordCount)

	total, err := events.SumForParticipant(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	// Correction to absent compensates the present point.
	record.Status = "absent"
	change, err = d.SetStatus(ctx, record, defaultStatusPoints(), nil)
	require.NoError(t, err)
	assert.Equal(t, -1, change.Delta)

	total, err = events.SumForParticipant(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.Zero(t, total)

	var eventCount int64
	require.NoError(t, testDB.Model(&PointEvent{}).Count(&eventCount).Error)
	assert.EqualValues(t, 2, eventCount)
}

func TestAttendanceDAO_SetStatusBatch(t *testing.T) {
	resetTables(t)

	ctx := context.Background()
	d := NewAttendanceDAO(testDB)
	p1 := seedParticipant(t, 1)
	p2 := seedParticipant(t, 1)
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	records := []AttendanceRecord{
		{OrganizationID: 1, ParticipantID: p1.ID, Date: date, Status: "present", RecordedBy: 9},
		{OrganizationID: 1, ParticipantID: p2.ID, Date: date, Status: "present", RecordedBy: 9},
	}

	changes, err := d.SetStatusBatch(ctx, records, defaultStatusPoints(), nil)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, 1, changes[0].Delta)
	assert.Equal(t, 1, changes[1].Delta)

	var eventCount int64
	require.NoError(t, testDB.Model(&PointEvent{}).Count(&eventCount).Error)
	assert.EqualValues(t, 2, eventCount)
}

func TestHonorDAO_Award(t *testing.T) {
	resetTables(t)

	ctx := context.Background()
	d := NewHonorDAO(testDB)
	events := NewPointEventDAO(testDB)
	p := seedParticipant(t, 1)
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	honor := Honor{OrganizationID: 1, ParticipantID: p.ID, Date: date}

	awarded, err := d.Award(ctx, honor, 5, nil)
	require.NoError(t, err)
	assert.True(t, awarded)

	// The duplicate reports awarded=false and leaves the ledger alone.
	awarded, err = d.Award(ctx, honor, 5, nil)
	require.NoError(t, err)
	assert.False(t, awarded)

	total, err := events.SumForParticipant(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, total)

	// A different day is a fresh award.
	honor.Date = date.AddDate(0, 0, 1)
	awarded, err = d.Award(ctx, honor, 5, nil)
	require.NoError(t, err)
	assert.True(t, awarded)
}

func TestHonorDAO_AwardBatch(t *testing.T) {
	resetTables(t)

	ctx := context.Background()
	d := NewHonorDAO(testDB)
	p1 := seedParticipant(t, 1)
	p2 := seedParticipant(t, 1)
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	// p2 already holds today's honor; the duplicate inside the batch must
	// not poison p1's insert.
	awarded, err := d.Award(ctx, Honor{OrganizationID: 1, ParticipantID: p2.ID, Date: date}, 5, nil)
	require.NoError(t, err)
	require.True(t, awarded)

	results, err := d.AwardBatch(ctx, []Honor{
		{OrganizationID: 1, ParticipantID: p1.ID, Date: date},
		{OrganizationID: 1, ParticipantID: p2.ID, Date: date},
	}, 5, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0])
	assert.False(t, results[1])

	var eventCount int64
	require.NoError(t, testDB.Model(&PointEvent{}).Count(&eventCount).Error)
	assert.EqualValues(t, 2, eventCount)
}

func TestBadgeDAO_ApproveIsTerminal(t *testing.T) {
	resetTables(t)

	ctx := context.Background()
	d := NewBadgeDAO(testDB)
	events := NewPointEventDAO(testDB)
	p := seedParticipant(t, 1)

	badge, err := d.Insert(ctx, BadgeProgress{
		OrganizationID: 1,
		ParticipantID:  p.ID,
		Territory:      "outdoors",
		Objective:      "firecraft",
	})
	require.NoError(t, err)
	assert.Equal(t, badgeStatusPending, badge.Status)

	approvalDate := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	approved, transitioned, err := d.Approve(ctx, badge.ID, 9, approvalDate, 5, nil)
	require.NoError(t, err)
	assert.True(t, transitioned)
	assert.Equal(t, badgeStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.EqualValues(t, 9, *approved.ApprovedBy)

	// Approving again later changes nothing and writes no second event.
	again, transitioned, err := d.Approve(ctx, badge.ID, 11, approvalDate.Add(time.Hour), 5, nil)
	require.NoError(t, err)
	assert.False(t, transitioned)
	require.NotNil(t, again.ApprovedBy)
	assert.EqualValues(t, 9, *again.ApprovedBy)

	total, err := events.SumForParticipant(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, total)

	// Rejecting a terminal submission is a no-op too.
	_, transitioned, err = d.Reject(ctx, badge.ID, 11, approvalDate.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, transitioned)
}

func TestBadgeDAO_RejectWritesNoEvent(t *testing.T) {
	resetTables(t)

	ctx := context.Background()
	d := NewBadgeDAO(testDB)
	p := seedParticipant(t, 1)

	badge, err := d.Insert(ctx, BadgeProgress{
		OrganizationID: 1,
		ParticipantID:  p.ID,
		Territory:      "outdoors",
		Objective:      "firecraft",
	})
	require.NoError(t, err)

	rejected, transitioned, err := d.Reject(ctx, badge.ID, 9, time.Now())
	require.NoError(t, err)
	assert.True(t, transitioned)
	assert.Equal(t, badgeStatusRejected, rejected.Status)

	var eventCount int64
	require.NoError(t, testDB.Model(&PointEvent{}).Count(&eventCount).Error)
	assert.Zero(t, eventCount)
}

func TestPointEventDAO_InsertGroupAward(t *testing.T) {
	resetTables(t)

	ctx := context.Background()
	d := NewPointEventDAO(testDB)
	p1 := seedParticipant(t, 1)
	p2 := seedParticipant(t, 1)

	group := Group{OrganizationID: 1, Name: "Foxes"}
	require.NoError(t, testDB.Create(&group).Error)
	require.NoError(t, testDB.Create(&GroupMembership{OrganizationID: 1, GroupID: group.ID, ParticipantID: p1.ID}).Error)
	require.NoError(t, testDB.Create(&GroupMembership{OrganizationID: 1, GroupID: group.ID, ParticipantID: p2.ID}).Error)

	groupID := group.ID
	inserted, err := d.InsertGroupAward(ctx, PointEvent{
		OrganizationID: 1,
		GroupID:        &groupID,
		Value:          3,
		Source:         "group_award",
		EffectiveDate:  time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Len(t, inserted, 3)

	groupTotal, err := d.SumForGroup(ctx, group.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, groupTotal)

	memberTotal, err := d.SumForParticipant(ctx, p1.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, memberTotal)
}

func TestPointEventDAO_Sums(t *testing.T) {
	resetTables(t)

	ctx := context.Background()
	d := NewPointEventDAO(testDB)
	p := seedParticipant(t, 1)

	// An empty ledger sums to zero, not an error.
	total, err := d.SumForParticipant(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.Zero(t, total)

	participantID := p.ID
	for _, value := range []int{1, 5, -1} {
		_, err = d.Insert(ctx, PointEvent{
			OrganizationID: 1,
			ParticipantID:  &participantID,
			Value:          value,
			Source:         "attendance",
			EffectiveDate:  time.Now(),
		})
		require.NoError(t, err)
	}

	total, err = d.SumForParticipant(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, total)

	// Another organization sees nothing.
	total, err = d.SumForParticipant(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.Zero(t, total)

	orgTotal, err := d.SumForOrganization(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, orgTotal)

	rows, err := d.Leaderboard(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, p.ID, rows[0].ParticipantID)
	assert.Equal(t, 5, rows[0].Total)
}

func TestOrganizationDAO_Rules(t *testing.T) {
	resetTables(t)

	ctx := context.Background()
	d := NewOrganizationDAO(testDB)

	_, err := d.FindRules(ctx, 1)
	assert.ErrorIs(t, err, ErrRulesNotFound)

	_, err = d.UpsertRules(ctx, PointSystemRules{OrganizationID: 1, Config: `{"present":2}`})
	require.NoError(t, err)

	rules, err := d.FindRules(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, `{"present":2}`, rules.Config)

	// Upsert replaces in place.
	_, err = d.UpsertRules(ctx, PointSystemRules{OrganizationID: 1, Config: `{"present":3}`})
	require.NoError(t, err)

	rules, err = d.FindRules(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, `{"present":3}`, rules.Config)

	var count int64
	require.NoError(t, testDB.Model(&PointSystemRules{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
