package client

// getFacetByCodeQuery fetches a facet with all its values, so one round trip
// warms the whole value cache.
const getFacetByCodeQuery = `
query GetFacetByCode($code: String!) {
  facets(options: { filter: { code: { eq: $code } } }) {
    items { id code name values { id code name } }
  }
}
`

// getCollectionBySlugQuery also fetches the parent so the resolver can
// reject same-slug collections living under a different parent. The parent
// name is needed too: top-level collections hang under the hidden
// __root_collection__ node, which has a real id.
const getCollectionBySlugQuery = `
query GetCollection($slug: String) {
  collection(slug: $slug) { id slug name parent { id name } }
}
`

// getProductOptionGroupsQuery lists the option groups already bound to a
// product. Group reuse is scoped to the product, never global.
const getProductOptionGroupsQuery = `
query GetProductOptionGroups($id: ID!) {
  product(id: $id) { id optionGroups { id code } }
}
`

const getOptionGroupQuery = `
query GetOptionGroup($id: ID!) {
  productOptionGroup(id: $id) { id code options { id code } }
}
`

const meQuery = `
query Me {
  me { id identifier channels { code token } }
}
`
