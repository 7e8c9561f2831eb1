package utils

import "encoding/json"

// ConvertStruct converts data into T through its JSON form, so field
// mapping follows the json tags of both types.
func ConvertStruct[O any, T any](data O) (T, error) {
	var result T

	b, err := json.Marshal(data)
	if err != nil {
		return result, err
	}

	err = json.Unmarshal(b, &result)

	return result, err
}

// ConvertSlice applies ConvertStruct to every item and stops at the first error.
func ConvertSlice[O any, T any](data []O) ([]T, error) {
	result := make([]T, len(data))

	for i, item := range data {
		converted, err := ConvertStruct[O, T](item)
		if err != nil {
			return nil, err
		}

		result[i] = converted
	}

	return result, nil
}
