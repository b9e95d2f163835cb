package router

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mitchellh/mapstructure"
)

// bind builds the request object from the query (GET) or the JSON body
// (POST). Path parameters are always applied last, so a body cannot
// override them.
func bind[Request any](c *gin.Context, method string) (*Request, error) {
	req := new(Request)

	values := map[string]any{}
	switch method {
	case http.MethodGet:
		for key, value := range c.Request.URL.Query() {
			if len(value) == 1 {
				values[key] = value[0]
			} else {
				values[key] = value
			}
		}

	case http.MethodPost:
		if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	}

	for _, param := range c.Params {
		values[param.Key] = param.Value
	}

	if len(values) == 0 {
		return req, nil
	}

	// Models carry json tags only, which gin's query binding ignores.
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           req,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(values); err != nil {
		return nil, err
	}

	return req, nil
}
