package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/campusnav/internal/core/domain"
	"github.com/samirrijal/campusnav/internal/core/usecases"
)

// rfc3339 resolves time fields as RFC 3339 strings.
func rfc3339(get func(src interface{}) *time.Time) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		t := get(p.Source)
		if t == nil || t.IsZero() {
			return nil, nil
		}
		return t.UTC().Format(time.RFC3339), nil
	}
}

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	locationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Location",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.String},
			"name":        &graphql.Field{Type: graphql.String},
			"location":    &graphql.Field{Type: geoPointType},
			"category":    &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
			"distance":    &graphql.Field{Type: graphql.Float},
		},
	})

	instructionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Instruction",
		Fields: graphql.Fields{
			"sequence":        &graphql.Field{Type: graphql.Int},
			"text":            &graphql.Field{Type: graphql.String},
			"direction":       &graphql.Field{Type: graphql.String},
			"distance_meters": &graphql.Field{Type: graphql.Float},
			"step_count":      &graphql.Field{Type: graphql.Int},
			"bearing_degrees": &graphql.Field{Type: graphql.Float},
			"created_at": &graphql.Field{Type: graphql.String, Resolve: rfc3339(func(src interface{}) *time.Time {
				switch in := src.(type) {
				case *domain.Instruction:
					return &in.CreatedAt
				case domain.Instruction:
					return &in.CreatedAt
				}
				return nil
			})},
		},
	})

	planType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Plan",
		Fields: graphql.Fields{
			"origin":          &graphql.Field{Type: locationType},
			"destination":     &graphql.Field{Type: locationType},
			"distance_meters": &graphql.Field{Type: graphql.Float},
			"bearing_degrees": &graphql.Field{Type: graphql.Float},
			"direction":       &graphql.Field{Type: graphql.String},
			"step_count":      &graphql.Field{Type: graphql.Int},
			"estimated_seconds": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					switch plan := p.Source.(type) {
					case *domain.Plan:
						return plan.EstimatedDuration.Seconds(), nil
					case domain.Plan:
						return plan.EstimatedDuration.Seconds(), nil
					}
					return nil, nil
				},
			},
		},
	})

	sessionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Session",
		Fields: graphql.Fields{
			"id":      &graphql.Field{Type: graphql.String},
			"user_id": &graphql.Field{Type: graphql.String},
			"plan":    &graphql.Field{Type: planType},
			"status": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return string(p.Source.(usecases.SessionView).Snapshot.Status), nil
				},
			},
			"updates": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(usecases.SessionView).Snapshot.Updates, nil
				},
			},
			"last_instruction": &graphql.Field{
				Type: instructionType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(usecases.SessionView).Snapshot.LastInstruction, nil
				},
			},
		},
	})

	idArg := graphql.FieldConfigArgument{
		"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
	}
	legArgs := graphql.FieldConfigArgument{
		"from": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
		"to":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"locations": &graphql.Field{
				Type:        graphql.NewList(locationType),
				Description: "List campus locations, optionally by category",
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 50},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if category, ok := p.Args["category"].(string); ok && category != "" {
						return deps.Locations.ListByCategory(p.Context, category)
					}
					locs, _, err := deps.Locations.List(p.Context, 0, p.Args["limit"].(int))
					return locs, err
				},
			},
			"location": &graphql.Field{
				Type:        locationType,
				Description: "Resolve a location by name",
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Locations.Resolve(p.Context, p.Args["name"].(string))
				},
			},
			"nearest": &graphql.Field{
				Type:        graphql.NewList(locationType),
				Description: "Locations closest to a point",
				Args: graphql.FieldConfigArgument{
					"lat":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pt := domain.GeoPoint{Lat: p.Args["lat"].(float64), Lon: p.Args["lon"].(float64)}
					return deps.Locations.Nearest(p.Context, pt, p.Args["limit"].(int))
				},
			},
			"plan": &graphql.Field{
				Type:        planType,
				Description: "Direct leg between two named locations",
				Args:        legArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					opts := deps.Navigation.Defaults()
					return deps.Locations.DistanceBetween(p.Context,
						p.Args["from"].(string), p.Args["to"].(string),
						opts.StrideLengthMeters, opts.WalkingSpeedMps)
				},
			},
			"session": &graphql.Field{
				Type:        sessionType,
				Description: "Get a navigation session by ID",
				Args:        idArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Navigation.Get(p.Context, p.Args["id"].(string))
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"planSession": &graphql.Field{
				Type: sessionType,
				Args: graphql.FieldConfigArgument{
					"from":    legArgs["from"],
					"to":      legArgs["to"],
					"user_id": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Navigation.Plan(p.Context,
						p.Args["user_id"].(string), p.Args["from"].(string), p.Args["to"].(string))
				},
			},
			"startSession": &graphql.Field{
				Type: sessionType,
				Args: idArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Navigation.Start(p.Context, p.Args["id"].(string))
				},
			},
			"stopSession": &graphql.Field{
				Type: sessionType,
				Args: idArg,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					view, _, err := deps.Navigation.Stop(p.Context, p.Args["id"].(string))
					return view, err
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
