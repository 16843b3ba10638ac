package readmodel

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"registrar/internal/eventstore"
	"registrar/internal/registration/models"
	id "registrar/pkg/domain"
)

const (
	enrollmentKeyPrefix = "enrollment:"
	appliedKeyPrefix    = "enrollment:applied:"
	defaultAppliedTTL   = 7 * 24 * time.Hour
)

// applyScript marks the event applied and increments each course counter in
// one round trip. A replayed event finds its marker and changes nothing.
//
// KEYS[1] applied marker, KEYS[2] semester hash
// ARGV[1] marker ttl seconds, ARGV[2..] course ids
var applyScript = redis.NewScript(`
if redis.call('SET', KEYS[1], '1', 'NX', 'EX', ARGV[1]) then
	for i = 2, #ARGV do
		redis.call('HINCRBY', KEYS[2], ARGV[i], 1)
	end
	return 1
end
return 0
`)

// RedisEnrollments is the Enrollments read model kept in Redis hashes, one
// per semester, so counts survive restarts and are shared across processes.
type RedisEnrollments struct {
	client     redis.UniversalClient
	appliedTTL time.Duration
}

type RedisOption func(*RedisEnrollments)

// WithAppliedTTL sets how long applied-event markers are kept for replay
// detection.
func WithAppliedTTL(ttl time.Duration) RedisOption {
	return func(r *RedisEnrollments) {
		if ttl > 0 {
			r.appliedTTL = ttl
		}
	}
}

func NewRedisEnrollments(client redis.UniversalClient, opts ...RedisOption) *RedisEnrollments {
	r := &RedisEnrollments{client: client, appliedTTL: defaultAppliedTTL}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func semesterKey(semesterID id.SemesterID) string {
	return enrollmentKeyPrefix + semesterID.String()
}

func (r *RedisEnrollments) EventTypes() []string {
	return []string{models.EventTypeCoursesSelected}
}

func (r *RedisEnrollments) Handle(ctx context.Context, event eventstore.Event) error {
	evt, err := models.DecodeCoursesSelected(event)
	if err != nil {
		return err
	}

	args := make([]any, 0, len(evt.CourseSelections)+1)
	args = append(args, int64(r.appliedTTL.Seconds()))
	for _, s := range evt.CourseSelections {
		args = append(args, s.CourseID.String())
	}

	keys := []string{appliedKeyPrefix + event.ID.String(), semesterKey(evt.SemesterID)}
	if err := applyScript.Run(ctx, r.client, keys, args...).Err(); err != nil {
		return fmt.Errorf("apply enrollment event %s: %w", event.ID, err)
	}
	return nil
}

func (r *RedisEnrollments) Count(ctx context.Context, semesterID id.SemesterID, courseID id.CourseID) (int, error) {
	n, err := r.client.HGet(ctx, semesterKey(semesterID), courseID.String()).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get enrollment count: %w", err)
	}
	return n, nil
}

func (r *RedisEnrollments) Semester(ctx context.Context, semesterID id.SemesterID) (map[id.CourseID]int, error) {
	raw, err := r.client.HGetAll(ctx, semesterKey(semesterID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get semester enrollments: %w", err)
	}
	out := make(map[id.CourseID]int, len(raw))
	for course, v := range raw {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse enrollment count for %s: %w", course, err)
		}
		out[id.CourseID(course)] = n
	}
	return out, nil
}
