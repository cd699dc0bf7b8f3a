// Package gql serves the quote API as a GraphQL endpoint over the same services as REST.
package gql

import (
	"github.com/graphql-go/graphql"
)

// NewSchema builds the executable schema around the given resolvers.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	quoteType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Quote",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"content":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"author":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"totalLikes":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"totalRatings":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"averageRating": &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"createdAt":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			// null when the quote was not annotated for the caller
			"liked":      &graphql.Field{Type: graphql.Boolean},
			"userRating": &graphql.Field{Type: graphql.Int},
		},
	})

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"createdAt": &graphql.Field{Type: graphql.String},
		},
	})

	authPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthPayload",
		Fields: graphql.Fields{
			"token": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"user":  &graphql.Field{Type: graphql.NewNonNull(userType)},
		},
	})

	paginationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PaginationInfo",
		Fields: graphql.Fields{
			"currentPage": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"totalPages":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"totalCount":  &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	paginatedQuotesType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PaginatedQuotes",
		Fields: graphql.Fields{
			"quotes":     &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(quoteType)))},
			"pagination": &graphql.Field{Type: graphql.NewNonNull(paginationType)},
		},
	})

	pageArg := &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"randomQuote": &graphql.Field{
				Type:    quoteType,
				Resolve: r.RandomQuote,
			},
			"likedQuotes": &graphql.Field{
				Type:    graphql.NewNonNull(paginatedQuotesType),
				Args:    graphql.FieldConfigArgument{"page": pageArg},
				Resolve: r.LikedQuotes,
			},
			"searchQuotes": &graphql.Field{
				Type: graphql.NewNonNull(paginatedQuotesType),
				Args: graphql.FieldConfigArgument{
					"term": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"page": pageArg,
				},
				Resolve: r.SearchQuotes,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"register": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"name":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.Register,
			},
			"login": &graphql.Field{
				Type: graphql.NewNonNull(authPayloadType),
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.Login,
			},
			"likeQuote": &graphql.Field{
				Type: graphql.NewNonNull(quoteType),
				Args: graphql.FieldConfigArgument{
					"quoteId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.LikeQuote,
			},
			"rateQuote": &graphql.Field{
				Type: graphql.NewNonNull(quoteType),
				Args: graphql.FieldConfigArgument{
					"quoteId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"rating":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: r.RateQuote,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}
