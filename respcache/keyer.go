package respcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// Keyer derives deterministic cache keys from a task and its context.
//
// Contract:
// - Determinism: the same task and context must produce the same key,
//   regardless of map iteration order.
// - Concurrency: safe for concurrent use.
type Keyer struct {
	volatile     map[string]struct{}
	patientField string
}

// NewKeyer creates a keyer that strips the named volatile fields before
// hashing and reads the patient ID from patientField.
func NewKeyer(volatileFields []string, patientField string) *Keyer {
	v := make(map[string]struct{}, len(volatileFields))
	for _, f := range volatileFields {
		v[f] = struct{}{}
	}
	if patientField == "" {
		patientField = "patientId"
	}
	return &Keyer{volatile: v, patientField: patientField}
}

// PatientID extracts the patient ID from a task context, if present.
func (k *Keyer) PatientID(taskCtx map[string]any) (string, bool) {
	id, ok := taskCtx[k.patientField].(string)
	return id, ok && id != ""
}

// Key derives the cache key for a task invocation.
// Format: resp:<task>:v<taskEpoch>:e<patientEpoch>:<hash>
// where hash is the first 16 hex characters of SHA-256(canonical JSON).
func (k *Keyer) Key(task string, taskEpoch, patientEpoch uint64, taskCtx map[string]any) (string, error) {
	canonical, err := k.canonicalize(taskCtx)
	if err != nil {
		return "", fmt.Errorf("respcache: canonicalizing context: %w", err)
	}

	hash := sha256.Sum256(canonical)
	hashStr := hex.EncodeToString(hash[:8])

	return fmt.Sprintf("resp:%s:v%d:e%d:%s", task, taskEpoch, patientEpoch, hashStr), nil
}

// FlightKey derives an epoch-free key used to merge identical concurrent
// in-flight requests.
func (k *Keyer) FlightKey(task string, taskCtx map[string]any) (string, error) {
	canonical, err := k.canonicalize(taskCtx)
	if err != nil {
		return "", fmt.Errorf("respcache: canonicalizing context: %w", err)
	}
	hash := sha256.Sum256(canonical)
	return fmt.Sprintf("flight:%s:%s", task, hex.EncodeToString(hash[:8])), nil
}

// canonicalize produces a deterministic JSON representation of the context.
// Top-level volatile fields are dropped; maps are sorted by key.
func (k *Keyer) canonicalize(taskCtx map[string]any) ([]byte, error) {
	if taskCtx == nil {
		return []byte("null"), nil
	}
	stripped := make(map[string]any, len(taskCtx))
	for key, val := range taskCtx {
		if _, skip := k.volatile[key]; skip {
			continue
		}
		stripped[key] = val
	}
	return canonicalValue(stripped)
}

func canonicalValue(v any) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return []byte("null"), nil
	case map[string]any:
		return canonicalMap(val)
	case []any:
		return canonicalSlice(val)
	default:
		return json.Marshal(v)
	}
}

func canonicalMap(m map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := []byte("{")
	for i, k := range keys {
		if i > 0 {
			result = append(result, ',')
		}

		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		result = append(result, keyBytes...)
		result = append(result, ':')

		valBytes, err := canonicalValue(m[k])
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, '}')

	return result, nil
}

func canonicalSlice(s []any) ([]byte, error) {
	result := []byte("[")
	for i, v := range s {
		if i > 0 {
			result = append(result, ',')
		}

		valBytes, err := canonicalValue(v)
		if err != nil {
			return nil, err
		}
		result = append(result, valBytes...)
	}
	result = append(result, ']')

	return result, nil
}
